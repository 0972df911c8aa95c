// Command thermostat runs the thermostat control core: it samples
// ambient temperature/humidity, services the two set-point buttons,
// drives the heat/cool relays and reports status over the serial link
// to the collector, with an optional MQTT mirror and HTTP status page.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dharmor/thermostat/internal/actuator"
	"github.com/dharmor/thermostat/internal/config"
	"github.com/dharmor/thermostat/internal/control"
	"github.com/dharmor/thermostat/internal/input"
	"github.com/dharmor/thermostat/internal/mqtt"
	"github.com/dharmor/thermostat/internal/report"
	"github.com/dharmor/thermostat/internal/sensor"
	"github.com/dharmor/thermostat/internal/status"
	"github.com/dharmor/thermostat/internal/web"
)

// overrides are the flag values that take precedence over the config
// file. Empty/negative means "not set".
type overrides struct {
	broker   string
	httpAddr string
	serial   string
	setPoint int
}

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults used when empty)")
	broker := flag.String("broker", "\x00", `MQTT broker address ("" disables the mirror)`)
	httpAddr := flag.String("http", "\x00", `HTTP status address ("" disables)`)
	serialDev := flag.String("serial", "", "serial device for the collector link")
	setPoint := flag.Int("set-point", -1, "startup set point, degrees F")
	printState := flag.Bool("print-state", false, "read the sensor once, print and exit")
	debug := flag.Bool("debug", false, "enable debug logging")

	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("fatal: %v", err)
		}
	}
	cfg = applyOverrides(cfg, overrides{
		broker:   *broker,
		httpAddr: *httpAddr,
		serial:   *serialDev,
		setPoint: *setPoint,
	})

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// applyOverrides folds set flags into the loaded configuration.
// The broker and http flags default to "\x00" so that an explicit empty
// string still disables the feature.
func applyOverrides(cfg config.Config, o overrides) config.Config {
	if o.broker != "\x00" {
		cfg.Broker = o.broker
	}
	if o.httpAddr != "\x00" {
		cfg.HTTPAddr = o.httpAddr
	}
	if o.serial != "" {
		cfg.Serial.Device = o.serial
	}
	if o.setPoint >= 0 {
		cfg.SetPoint.Initial = o.setPoint
	}
	return cfg
}

func run(cfg config.Config, printState bool) error {
	// Sensor first; nothing works without it.
	reader, err := sensor.NewRealReader(cfg.I2CBus, cfg.SensorAddr)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer reader.Close()

	if printState {
		r, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read sensor: %w", err)
		}
		fmt.Printf("temperature: %.1f°F, humidity: %.1f%%\n", r.Temperature, r.Humidity)
		return nil
	}

	buttons, err := input.NewButtons(cfg.GPIOChip, cfg.Pins.Increase, cfg.Pins.Decrease, cfg.Debounce())
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer buttons.Close()

	outputs, err := actuator.NewRealOutputs(cfg.GPIOChip, cfg.Pins.Heat, cfg.Pins.Cool)
	if err != nil {
		return fmt.Errorf("init outputs: %w", err)
	}
	driver := actuator.New(outputs, cfg.Dwell())
	defer driver.Close()

	transport, err := report.NewSerialTransport(cfg.Serial.Device, cfg.Serial.Baud)
	if err != nil {
		return fmt.Errorf("init serial: %w", err)
	}
	reports := report.NewChannel(transport)
	defer reports.Close()

	tracker := status.NewTracker(time.Now(), cfg.StatusConfig())

	var mirror mqtt.Publisher
	var mirrorStatus mqtt.ConnectionStatus
	if cfg.Broker != "" {
		pub, err := mqtt.NewRealPublisher(cfg.Broker)
		if err != nil {
			// The mirror is optional; the control loop must come up
			// without the broker.
			log.WithError(err).Warn("mqtt mirror unavailable, continuing without it")
		} else {
			defer pub.Close()
			mirror = pub
			mirrorStatus = pub

			startup := mqtt.SystemEvent{
				Timestamp:  time.Now(),
				Event:      "STARTUP",
				Retained:   true,
				RawPayload: status.FormatStatusEvent(tracker.Snapshot(), "STARTUP", ""),
			}
			if err := pub.PublishSystem(startup); err != nil {
				log.WithError(err).Warn("failed to publish startup event")
			} else {
				log.Info("published startup event")
			}
		}
	}

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("http server error")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Infof("http status server listening on %s", cfg.HTTPAddr)
	}

	setStore := input.NewStore(cfg.SetPoint.Initial, cfg.SetPoint.Min, cfg.SetPoint.Max)

	loop := control.New(control.Deps{
		Sensor:       reader,
		Driver:       driver,
		IncButton:    buttons.Inc,
		DecButton:    buttons.Dec,
		SetPoint:     setStore,
		Reports:      reports,
		Mirror:       mirror,
		MirrorStatus: mirrorStatus,
		Tracker:      tracker,
	}, control.Config{
		SampleInterval:    cfg.Sample(),
		ReportInterval:    cfg.Report(),
		HeartbeatInterval: cfg.Heartbeat(),
		Hysteresis:        cfg.Hysteresis,
	})

	log.Infof("started: poll=%v sample=%v report=%v debounce=%v dwell=%v hysteresis=%.1f set_point=%d",
		cfg.Poll(), cfg.Sample(), cfg.Report(), cfg.Debounce(), cfg.Dwell(),
		cfg.Hysteresis, setStore.Load())

	ticker := time.NewTicker(cfg.Poll())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return loop.Run(time.Now, ticker.C, sigCh)
}
