package transport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlabs/mbus"
	"github.com/flowlabs/mbus/pkg/transport"
)

type stubDriver struct{ channel string }

func (d *stubDriver) SetPin(mbus.Pin, bool) {}

func TestRegisterAndNew(t *testing.T) {
	transport.Register("stub", func(channel string) (mbus.PinDriver, error) {
		return &stubDriver{channel: channel}, nil
	})

	driver, err := transport.New("stub", "chan-a")
	require.NoError(t, err)
	require.IsType(t, &stubDriver{}, driver)
	assert.Equal(t, "chan-a", driver.(*stubDriver).channel)

	assert.Contains(t, transport.Implemented(), "stub")
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := transport.New("does-not-exist", "")
	assert.Error(t, err)
}
