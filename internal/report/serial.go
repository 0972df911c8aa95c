package report

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// DefaultDevice and DefaultBaud match the collector link settings:
// 115200 baud, 8 data bits, no parity, one stop bit.
const (
	DefaultDevice = "/dev/ttyS0"
	DefaultBaud   = 115200
)

// SerialTransport writes records to a serial port through a single
// writer goroutine. Write hands the record off without blocking: if the
// writer is still draining the previous record the new one is refused
// with ErrBusy, which bounds the control loop's worst-case send latency
// no matter how slow the port is.
type SerialTransport struct {
	port serial.Port

	records chan []byte
	done    chan struct{}
	wg      sync.WaitGroup

	closeOnce sync.Once
}

// NewSerialTransport opens the serial device and starts the writer.
func NewSerialTransport(device string, baud int) (*SerialTransport, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", device, err)
	}

	t := &SerialTransport{
		port:    port,
		records: make(chan []byte),
		done:    make(chan struct{}),
	}
	t.wg.Add(1)
	go t.writeLoop()
	return t, nil
}

// Write hands one record to the writer goroutine. Returns ErrBusy
// without blocking if the writer has not finished the previous record.
func (t *SerialTransport) Write(p []byte) error {
	select {
	case <-t.done:
		return fmt.Errorf("report: transport closed")
	case t.records <- p:
		return nil
	default:
		return ErrBusy
	}
}

func (t *SerialTransport) writeLoop() {
	defer t.wg.Done()
	for {
		select {
		case <-t.done:
			return
		case p := <-t.records:
			if _, err := t.port.Write(p); err != nil {
				// A failed write loses one point-in-time sample.
				log.WithError(err).Warn("serial write failed, record dropped")
			}
		}
	}
}

// Close stops the writer and closes the port.
func (t *SerialTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		// Closing the port unblocks a writer stuck in Write.
		err = t.port.Close()
		t.wg.Wait()
	})
	return err
}
