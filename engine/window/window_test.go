package window

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-moto/common"
	"github.com/stretchr/testify/assert"
)

func TestEventQueueDrainsInOrder(t *testing.T) {
	w := &engineWindow{width: 1024, height: 768}

	w.pushKey(common.KeyUp, true, false)
	w.pushKey(common.KeyUp, true, true)
	w.pushResize(800, 600)
	w.pushKey(common.KeyUp, false, false)

	events := w.Events()
	assert.Equal(t, []common.Event{
		{Kind: common.EventKey, Key: common.KeyUp, Pressed: true},
		{Kind: common.EventKey, Key: common.KeyUp, Pressed: true, Repeat: true},
		{Kind: common.EventResize, Width: 800, Height: 600},
		{Kind: common.EventKey, Key: common.KeyUp},
	}, events)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())

	assert.Empty(t, w.Events())
}

func TestEscapeRequestsClose(t *testing.T) {
	w := &engineWindow{}
	w.pushKey(common.KeyEsc, true, false)
	w.pushKey(common.KeyEsc, false, false)

	events := w.Events()
	assert.Equal(t, common.EventClose, events[0].Kind)
	assert.Equal(t, common.EventKey, events[1].Kind)
}

func TestUninitializedWindow(t *testing.T) {
	w := &engineWindow{}
	w.WaitUntil(time.Now().Add(time.Hour))
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
}
