package classifier

import (
	"EmotionGolang/internal/entity"
	websocketPkg "EmotionGolang/pkg/websocket"
	"context"
)

// modelServerClassifier runs inference on the model server reached over websocket.
type modelServerClassifier struct {
	ws websocketPkg.IWebsocket
}

func NewModelServer(ws websocketPkg.IWebsocket) IClassifier {
	return &modelServerClassifier{ws: ws}
}

// Ready dials once more when the background connection has not come up yet.
func (c *modelServerClassifier) Ready() bool {
	if c.ws == nil {
		return false
	}
	if c.ws.IsConnected(websocketPkg.ClassifierService) {
		return true
	}
	return c.ws.Reconnect(websocketPkg.ClassifierService) == nil
}

func (c *modelServerClassifier) Classify(ctx context.Context, tensor entity.Tensor) (entity.ProbabilityVector, error) {
	return c.ws.Classify(ctx, tensor)
}

func (c *modelServerClassifier) Name() string {
	return BackendWebsocket
}
