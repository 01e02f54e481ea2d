// Package engine 实现媒体库的核心算法：内容指纹、重复聚类和归档路径推导.
//
// 三者都是纯函数，不持有状态、不做 I/O（指纹只读取调用方给定的采样流），
// 调用方负责串行化同一记录集合上的重聚类.
package engine
