package engine

import (
	"github.com/yeisme/mediavault/pkg/internal/types"
)

// Options 聚类行为开关.
type Options struct {
	// ReclusterAll 兼容旧行为：所有状态都参与重分组，
	// 多元素聚类会把 deleted/optimized 等状态覆盖为 healthy/duplicate.
	// 默认（false）只在 healthy 与 duplicate 之间切换，其余状态原样透传.
	ReclusterAll bool
}

// DetectDuplicates 按默认选项对记录集合做重复聚类.
func DetectDuplicates(files []types.MediaFile) []types.MediaFile {
	return DetectDuplicatesWith(files, Options{})
}

// DetectDuplicatesWith 把记录按指纹分组，为每组决选主记录并改写 status/duplicateOf.
// 返回新切片，输出顺序与输入逐下标一致（UI 依赖下标稳定）；对自身输出重跑是幂等的.
// 缺失数值字段按 0 处理，单条坏记录不会中断整个聚类.
func DetectDuplicatesWith(files []types.MediaFile, opts Options) []types.MediaFile {
	out := make([]types.MediaFile, len(files))
	copy(out, files)

	// 分组键 -> 输入下标（升序，保证平局时首个出现者胜出）
	groups := make(map[string][]int, len(out))

	for i := range out {
		if !opts.ReclusterAll && !out[i].IsClusterable() {
			continue
		}

		key := GroupKey(&out[i])
		groups[key] = append(groups[key], i)
	}

	for _, idxs := range groups {
		if len(idxs) == 1 {
			// 孤立指纹不得携带 duplicate 状态或 duplicateOf
			f := &out[idxs[0]]
			if f.Status == types.StatusDuplicate {
				f.Status = types.StatusHealthy
			}

			f.DuplicateOf = ""

			continue
		}

		p := idxs[0]
		for _, i := range idxs[1:] {
			if betterPrimary(&out[i], &out[p]) {
				p = i
			}
		}

		for _, i := range idxs {
			if i == p {
				out[i].Status = types.StatusHealthy
				out[i].DuplicateOf = ""
			} else {
				out[i].Status = types.StatusDuplicate
				out[i].DuplicateOf = out[p].ID
			}
		}
	}

	return out
}

// betterPrimary 判断 a 是否严格优于当前主记录候选 b：
// 最早 lastModified 优先（最旧即原件），再比更大 size（高保真导出更可能是原件），
// 完全平局由调用方的先到先得保证.
func betterPrimary(a, b *types.MediaFile) bool {
	if a.LastModified != b.LastModified {
		return a.LastModified < b.LastModified
	}

	return a.Size > b.Size
}

// SelectPrimary 在一组记录内按同样的决选规则选出主记录 ID.
// 用于外部视觉聚类：远端给出的 primaryId 表达视觉代表性，归档主记录仍在本地重算.
func SelectPrimary(group []types.MediaFile) string {
	if len(group) == 0 {
		return ""
	}

	p := 0
	for i := 1; i < len(group); i++ {
		if betterPrimary(&group[i], &group[p]) {
			p = i
		}
	}

	return group[p].ID
}
