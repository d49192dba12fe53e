package hub

import (
	log "log/slog"
	"sync"
)

const SignalNewNotification = "NEW_NOTIFICATION"

// DefaultBufferSize 单个订阅者的信号缓冲，写满即丢弃新信号
const DefaultBufferSize = 16

// Signal 在线推送的最小信号，只携带类型标记，
// 客户端收到后自行重新拉取通知列表
type Signal struct {
	Type string `json:"type"`
}

// Subscriber 一条在线连接对应一个独立的订阅者。
// 同一用户多开（多标签页、多设备）时各自持有独立的 Subscriber，互不影响
type Subscriber struct {
	UserID uint64
	C      chan Signal
}

// Hub 进程内的在线订阅注册表：userID -> 订阅者集合。
// 随进程生命周期存在，由 wire 构造一次并注入需要的组件，不做持久化
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uint64]map[*Subscriber]struct{}
	bufferSize  int
}

func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Hub{
		subscribers: make(map[uint64]map[*Subscriber]struct{}),
		bufferSize:  bufferSize,
	}
}

// Subscribe 为用户注册一个新的订阅者，每次调用返回独立的信号通道
func (h *Hub) Subscribe(userID uint64) *Subscriber {
	sub := &Subscriber{
		UserID: userID,
		C:      make(chan Signal, h.bufferSize),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subscribers[userID]
	if !ok {
		set = make(map[*Subscriber]struct{})
		h.subscribers[userID] = set
	}
	set[sub] = struct{}{}

	return sub
}

// Unsubscribe 注销单个订阅者并关闭其通道，同一用户的其他订阅者不受影响。
// 用户最后一个订阅者退出时回收整个集合，避免重连抖动导致的内存泄漏
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subscribers[sub.UserID]
	if !ok {
		return
	}
	if _, ok = set[sub]; !ok {
		return
	}

	delete(set, sub)
	if len(set) == 0 {
		delete(h.subscribers, sub.UserID)
	}
	close(sub.C)
}

// Broadcast 向给定用户集合中当前在线的订阅者投递信号。
// 发送是非阻塞的：订阅者缓冲写满时丢弃本条信号并告警，不会拖慢其他人；
// 不在线的用户直接跳过，离线期间的可达性由落库的通知记录保证
func (h *Hub) Broadcast(userIDs []uint64, sig Signal) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range userIDs {
		set, ok := h.subscribers[userID]
		if !ok {
			continue
		}
		for sub := range set {
			select {
			case sub.C <- sig:
			default:
				log.Warn("通知信号缓冲已满，丢弃本条信号", "userID", userID, "type", sig.Type)
			}
		}
	}
}

// SubscriberCount 返回某用户当前的在线订阅者数量
func (h *Hub) SubscriberCount(userID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

// Close 关闭全部订阅者，用于进程退出时结束所有在线推送连接
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, set := range h.subscribers {
		for sub := range set {
			close(sub.C)
		}
		delete(h.subscribers, userID)
	}
}
