package xinvalidate

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type 表示失效消息的类型。
type Type string

const (
	// TypeEvict 表示删除单个缓存键。
	TypeEvict Type = "EVICT"

	// TypeClear 表示清空整个缓存命名空间。
	TypeClear Type = "CLEAR"
)

// valid 报告消息类型是否为已知类型。
// 未知类型来自协议演进或异构发布方，订阅方应丢弃并记录日志。
func (t Type) valid() bool {
	return t == TypeEvict || t == TypeClear
}

// Message 是在实例间广播的缓存失效消息。
//
// 字段名与线上 JSON 格式一一对应，跨语言消费方依赖这些字段名，
// 不可随意变更。CLEAR 消息的 CacheKey 为 nil，序列化后省略。
type Message struct {
	// MessageID 是消息的唯一标识，用于日志关联与问题排查。
	MessageID string `json:"messageId"`

	// SourceInstanceID 是发布方的实例 ID，用于自回声抑制。
	SourceInstanceID string `json:"sourceInstanceId"`

	// CacheName 是目标缓存命名空间。
	CacheName string `json:"cacheName"`

	// CacheKey 是目标缓存键。CLEAR 消息中为 nil。
	CacheKey *string `json:"cacheKey,omitempty"`

	// Type 是消息类型（EVICT 或 CLEAR）。
	Type Type `json:"type"`

	// Timestamp 是发布时刻，序列化为 ISO-8601（RFC 3339）字符串。
	Timestamp time.Time `json:"timestamp"`
}

// NewEvict 构造一条单键失效消息。
func NewEvict(sourceInstanceID, cacheName, cacheKey string) Message {
	key := cacheKey
	return Message{
		MessageID:        uuid.NewString(),
		SourceInstanceID: sourceInstanceID,
		CacheName:        cacheName,
		CacheKey:         &key,
		Type:             TypeEvict,
		Timestamp:        time.Now().UTC(),
	}
}

// NewClear 构造一条命名空间清空消息。
func NewClear(sourceInstanceID, cacheName string) Message {
	return Message{
		MessageID:        uuid.NewString(),
		SourceInstanceID: sourceInstanceID,
		CacheName:        cacheName,
		Type:             TypeClear,
		Timestamp:        time.Now().UTC(),
	}
}

// IsFrom 报告消息是否由指定实例发出。
func (m Message) IsFrom(instanceID string) bool {
	return m.SourceInstanceID == instanceID
}

// Key 返回消息的缓存键，CLEAR 消息返回空字符串。
func (m Message) Key() string {
	if m.CacheKey == nil {
		return ""
	}
	return *m.CacheKey
}

// Encode 将消息序列化为 JSON 字节。
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode 从 JSON 字节反序列化消息。
func Decode(payload []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(payload, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}
