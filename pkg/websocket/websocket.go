package websocketPkg

import (
	"EmotionGolang/internal/entity"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

type ServiceType string

const (
	FaceDetectorService ServiceType = "FACE_DETECTOR"
	ClassifierService   ServiceType = "CLASSIFIER"
)

var ErrNotConfigured = errors.New("model service URL not configured")

type IWebsocket interface {
	DetectFaces(ctx context.Context, frame []byte) ([]entity.FaceBox, error)
	Classify(ctx context.Context, tensor entity.Tensor) (entity.ProbabilityVector, error)
	IsConnected(service ServiceType) bool
	Reconnect(service ServiceType) error
	CloseConnections()
}

// modelConn serialises request/response round trips on one socket.
type modelConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
	url  string
}

type webSocketClient struct {
	log          *logrus.Logger
	services     map[ServiceType]*modelConn
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	dialer       *websocket.Dialer
}

// NewModelWebSocketClient dials the face detector and classifier services in the
// background. A failed dial is retried lazily on the next request.
func NewModelWebSocketClient(log *logrus.Logger) IWebsocket {
	return newClient(log, map[ServiceType]string{
		FaceDetectorService: os.Getenv("FACE_DETECTOR_WS_URL"),
		ClassifierService:   os.Getenv("CLASSIFIER_WS_URL"),
	}, true)
}

func newClient(log *logrus.Logger, urls map[ServiceType]string, background bool) *webSocketClient {
	client := &webSocketClient{
		log:          log,
		services:     make(map[ServiceType]*modelConn, len(urls)),
		pingInterval: 30 * time.Second,
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
			ReadBufferSize:   64 * 1024,
			WriteBufferSize:  64 * 1024,
		},
	}
	for service, url := range urls {
		client.services[service] = &modelConn{url: url}
	}

	if background {
		for service := range urls {
			go client.connectInBackground(service)
		}
	}

	return client
}

func (c *webSocketClient) connectInBackground(service ServiceType) {
	if err := c.Reconnect(service); err != nil {
		c.log.Warnf("Initial connection to %s failed: %v. Will retry on demand.", service, err)
		return
	}
	c.log.Infof("Successfully connected to %s service", service)
}

func (c *webSocketClient) IsConnected(service ServiceType) bool {
	mc, ok := c.services[service]
	if !ok {
		return false
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()

	return mc.conn != nil
}

func (c *webSocketClient) Reconnect(service ServiceType) error {
	mc, ok := c.services[service]
	if !ok {
		return fmt.Errorf("unknown model service %s", service)
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()

	return c.dialLocked(service, mc)
}

func (c *webSocketClient) dialLocked(service ServiceType, mc *modelConn) error {
	if mc.conn != nil {
		mc.conn.Close()
		mc.conn = nil
	}

	if mc.url == "" {
		return fmt.Errorf("%w: %s", ErrNotConfigured, service)
	}

	c.log.Debugf("Connecting to %s at %s", service, mc.url)

	conn, _, err := c.dialer.Dial(mc.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", mc.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		if err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout)); err != nil {
			c.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	mc.conn = conn
	go c.keepAlive(service, mc, conn)

	return nil
}

func (c *webSocketClient) CloseConnections() {
	for _, mc := range c.services {
		mc.mu.Lock()
		if mc.conn != nil {
			mc.conn.Close()
			mc.conn = nil
		}
		mc.mu.Unlock()
	}
}

func (c *webSocketClient) keepAlive(service ServiceType, mc *modelConn, conn *websocket.Conn) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		mc.mu.Lock()
		if mc.conn != conn {
			mc.mu.Unlock()
			return
		}

		if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.writeTimeout)); err != nil {
			c.log.Warnf("Ping failed for %s, marking connection as dead: %v", service, err)
			mc.conn = nil
			conn.Close()
			mc.mu.Unlock()
			return
		}
		mc.mu.Unlock()
	}
}

// roundTrip sends one message and waits for its reply while holding the
// connection, so concurrent callers never read each other's responses.
func (c *webSocketClient) roundTrip(ctx context.Context, service ServiceType, messageType int, payload []byte) ([]byte, error) {
	mc, ok := c.services[service]
	if !ok {
		return nil, fmt.Errorf("unknown model service %s", service)
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.conn == nil {
		if err := c.dialLocked(service, mc); err != nil {
			return nil, fmt.Errorf("cannot connect to %s service: %w", service, err)
		}
	}
	conn := mc.conn

	writeDeadline := time.Now().Add(c.writeTimeout)
	readDeadline := time.Now().Add(c.readTimeout)
	if d, ok := ctx.Deadline(); ok {
		if d.Before(writeDeadline) {
			writeDeadline = d
		}
		if d.Before(readDeadline) {
			readDeadline = d
		}
	}

	_ = conn.SetWriteDeadline(writeDeadline)
	if err := conn.WriteMessage(messageType, payload); err != nil {
		mc.conn = nil
		conn.Close()
		return nil, fmt.Errorf("error sending to %s: %w", service, err)
	}

	_ = conn.SetReadDeadline(readDeadline)
	_, message, err := conn.ReadMessage()
	if err != nil {
		mc.conn = nil
		conn.Close()
		return nil, fmt.Errorf("error reading from %s: %w", service, err)
	}

	_ = conn.SetReadDeadline(time.Time{})
	_ = conn.SetWriteDeadline(time.Time{})

	return message, nil
}

func (c *webSocketClient) DetectFaces(ctx context.Context, frame []byte) ([]entity.FaceBox, error) {
	c.log.Debugf("Sending face frame of size: %d bytes", len(frame))

	message, err := c.roundTrip(ctx, FaceDetectorService, websocket.BinaryMessage, frame)
	if err != nil {
		return nil, err
	}

	var result entity.FaceDetectionResult
	if err := jsoniter.Unmarshal(message, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling face response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("face detector returned an error: %s", result.Error)
	}

	boxes := result.Boxes()
	c.log.Debugf("Face detection result: %d faces", len(boxes))

	return boxes, nil
}

func (c *webSocketClient) Classify(ctx context.Context, tensor entity.Tensor) (entity.ProbabilityVector, error) {
	payload, err := jsoniter.Marshal(entity.ClassificationRequest{Shape: tensor.Shape, Data: tensor.Data})
	if err != nil {
		return entity.ProbabilityVector{}, fmt.Errorf("error marshaling tensor: %w", err)
	}

	message, err := c.roundTrip(ctx, ClassifierService, websocket.TextMessage, payload)
	if err != nil {
		return entity.ProbabilityVector{}, err
	}

	var result entity.ClassificationResult
	if err := jsoniter.Unmarshal(message, &result); err != nil {
		return entity.ProbabilityVector{}, fmt.Errorf("error unmarshaling classifier response: %w", err)
	}
	if result.Error != "" {
		return entity.ProbabilityVector{}, fmt.Errorf("classifier returned an error: %s", result.Error)
	}

	return entity.NewProbabilityVector(result.Predictions)
}
