package bulb_test

import (
	"context"
	"sync"
	"time"
)

type fakeDevice struct {
	mu       sync.Mutex
	report   string
	fetchErr error
	cmdErr   error
	fetches  int
	commands []string
	// release, when set, blocks FetchStatus until it is closed.
	release chan struct{}
}

func (d *fakeDevice) FetchStatus(_ context.Context) (string, error) {
	d.mu.Lock()
	d.fetches++
	release := d.release
	d.mu.Unlock()

	if release != nil {
		<-release
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.report, d.fetchErr
}

func (d *fakeDevice) SendCommand(_ context.Context, command string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cmdErr != nil {
		return "", d.cmdErr
	}
	d.commands = append(d.commands, command)

	if command == "info" {
		return "Model: yeelink.light.color2\nHardware version: esp8266\nFirmware version: 2.0.6_0041\n", nil
	}

	return "", nil
}

func (d *fakeDevice) fetchCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fetches
}

func (d *fakeDevice) sent() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.commands...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
