package events

import "errors"

var (
	// ErrPublish возвращается, когда событие не удалось записать в Kafka
	ErrPublish = errors.New("events publisher: failed to publish event")

	// ErrEncode возвращается, когда событие не удалось сериализовать
	ErrEncode = errors.New("events publisher: failed to encode event")
)
