package service

import (
	"audit_survey_backend/internal/model"
	"audit_survey_backend/pkg/logger"
	"audit_survey_backend/pkg/monitoring"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	resultsChannel = "survey_results"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Subscriber 一个实时结果 websocket 连接
type Subscriber struct {
	hub      *ResultsHub
	conn     *websocket.Conn
	send     chan []byte
	surveyID string
}

// readPump 只用于感知断开与处理 pong，客户端消息直接丢弃
func (c *Subscriber) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warn("Live results socket closed unexpectedly", zap.Error(err), zap.String("surveyId", c.surveyID))
			}
			return
		}
	}
}

func (c *Subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type pubSubMessage struct {
	SurveyID string          `json:"surveyId"`
	Payload  json.RawMessage `json:"payload"`
}

// ResultsHub 按问卷分组推送结果快照；启用 Redis 时经 pub/sub 在多实例间转发
type ResultsHub struct {
	mu         sync.RWMutex
	surveys    map[string]map[*Subscriber]bool
	register   chan *Subscriber
	unregister chan *Subscriber
	done       chan struct{}
	redis      *redis.Client
}

func NewResultsHub(rdb *redis.Client) *ResultsHub {
	return &ResultsHub{
		surveys:    make(map[string]map[*Subscriber]bool),
		register:   make(chan *Subscriber),
		unregister: make(chan *Subscriber),
		done:       make(chan struct{}),
		redis:      rdb,
	}
}

func (h *ResultsHub) Run(ctx context.Context) {
	if h.redis != nil {
		pubsub := h.redis.Subscribe(ctx, resultsChannel)
		defer pubsub.Close()
		go func() {
			for msg := range pubsub.Channel() {
				var m pubSubMessage
				if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
					logger.Log.Error("PubSub unmarshal error", zap.Error(err))
					continue
				}
				h.pushLocal(m.SurveyID, m.Payload)
			}
		}()
	}

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.surveys[c.surveyID] == nil {
				h.surveys[c.surveyID] = make(map[*Subscriber]bool)
			}
			h.surveys[c.surveyID][c] = true
			h.mu.Unlock()
			monitoring.LiveSubscribers.Inc()

		case c := <-h.unregister:
			h.mu.Lock()
			if subs, ok := h.surveys[c.surveyID]; ok && subs[c] {
				delete(subs, c)
				close(c.send)
				if len(subs) == 0 {
					delete(h.surveys, c.surveyID)
				}
				monitoring.LiveSubscribers.Dec()
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.stop()
			return
		}
	}
}

func (h *ResultsHub) stop() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, subs := range h.surveys {
		for c := range subs {
			close(c.send)
			monitoring.LiveSubscribers.Dec()
		}
		delete(h.surveys, id)
	}
	logger.Log.Info("Results hub stopped")
}

// Interested 本实例有订阅者，或需要经 Redis 通知其他实例
func (h *ResultsHub) Interested(surveyID string) bool {
	if h.redis != nil {
		return true
	}
	return h.Subscribers(surveyID) > 0
}

func (h *ResultsHub) Subscribers(surveyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.surveys[surveyID])
}

func encodeResults(report *model.ResultsReport) ([]byte, error) {
	return json.Marshal(WSMessage{Type: "RESULTS", Data: report})
}

func (h *ResultsHub) Publish(ctx context.Context, surveyID string, report *model.ResultsReport) {
	payload, err := encodeResults(report)
	if err != nil {
		logger.Log.Error("Encode results failed", zap.Error(err))
		return
	}
	if h.redis != nil {
		data, _ := json.Marshal(pubSubMessage{SurveyID: surveyID, Payload: payload})
		if err := h.redis.Publish(ctx, resultsChannel, data).Err(); err == nil {
			return
		}
		logger.Log.Warn("Redis publish failed, delivering locally", zap.String("surveyId", surveyID))
	}
	h.pushLocal(surveyID, payload)
}

func (h *ResultsHub) pushLocal(surveyID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.surveys[surveyID] {
		select {
		case c.send <- payload:
		default:
			// 慢连接丢弃本次快照
		}
	}
}

// Serve 升级连接，先发送当前快照再加入订阅
func (h *ResultsHub) Serve(w http.ResponseWriter, r *http.Request, surveyID string, snapshot *model.ResultsReport) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &Subscriber{hub: h, conn: conn, send: make(chan []byte, 8), surveyID: surveyID}
	if snapshot != nil {
		if payload, err := encodeResults(snapshot); err == nil {
			c.send <- payload
		}
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return nil
	}
	go c.writePump()
	go c.readPump()
	return nil
}
