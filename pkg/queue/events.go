package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishScanCompleted 发布 mv.library.scan.completed 事件。
// 扫描摄取管道在一次扫描全部批次落库并完成重聚类后调用，
// 通知下游消费者（统计面板、通知等）。
func PublishScanCompleted(pub message.Publisher, payload ScanCompletedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicScanCompleted, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicScanCompleted, msg)
}

// ParseScanCompleted 将 Watermill 消息解析为强类型 Envelope（ScanCompletedPayload）。
func ParseScanCompleted(msg *message.Message) (Message[ScanCompletedPayload], error) {
	return ParseWatermillMessage[ScanCompletedPayload](msg)
}

// PublishDuplicatesDetected 发布 mv.duplicates.detected 事件。
func PublishDuplicatesDetected(pub message.Publisher, payload DuplicatesDetectedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicDuplicatesDetected, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicDuplicatesDetected, msg)
}

// ParseDuplicatesDetected 将 Watermill 消息解析为强类型 Envelope（DuplicatesDetectedPayload）。
func ParseDuplicatesDetected(msg *message.Message) (Message[DuplicatesDetectedPayload], error) {
	return ParseWatermillMessage[DuplicatesDetectedPayload](msg)
}

// PublishTrashPurged 发布 mv.trash.purged 事件，由回收站定时清理任务调用。
func PublishTrashPurged(pub message.Publisher, payload TrashPurgedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicTrashPurged, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicTrashPurged, msg)
}

// ParseTrashPurged 将 Watermill 消息解析为强类型 Envelope（TrashPurgedPayload）。
func ParseTrashPurged(msg *message.Message) (Message[TrashPurgedPayload], error) {
	return ParseWatermillMessage[TrashPurgedPayload](msg)
}
