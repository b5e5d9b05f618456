package gpio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowlabs/mbus/pkg/gpio"
)

// NewDriver's pin resolution and the host-level Out() calls need real
// periph.io host state (gpioreg.ByName, host.Init), so only the
// channel-string contract is exercised here; Open is covered in practice
// by running cmd/mbusnode against actual hardware.
func TestNewDriverRejectsMalformedChannel(t *testing.T) {
	_, err := gpio.NewDriver("only-one-pin")
	assert.Error(t, err)

	_, err = gpio.NewDriver("one,two,three")
	assert.Error(t, err)
}
