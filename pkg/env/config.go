package env

import (
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/golang/glog"

	"github.com/robotalks/hif.go/pkg/hif"
	"github.com/robotalks/hif.go/pkg/relay/mqtt"
	"github.com/robotalks/hif.go/pkg/serial"
)

// Config provides common options of the commands.
type Config struct {
	// Device is the serial device or ws:// URL of a remote port.
	Device string
	Baud   int
	Driver string

	// BrokerURL specifies the relay broker.
	// e.g. mqtt://host:port/topic-prefix
	BrokerURL string
	// DeviceID names the device in relay topics.
	DeviceID string
}

var defaultConfig = Config{
	Device:    "/dev/ttyACM0",
	Baud:      serial.DefaultBaud,
	Driver:    serial.DriverNative,
	BrokerURL: "mqtt://localhost:1883/hif/",
}

func init() {
	if val := os.Getenv("HIF_DEVICE"); val != "" {
		defaultConfig.Device = val
	}
	if val := os.Getenv("HIF_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil && baud > 0 {
			defaultConfig.Baud = baud
		} else {
			glog.Warningf("ignore invalid HIF_BAUD %q", val)
		}
	}
	if val := os.Getenv("HIF_DRIVER"); val != "" {
		defaultConfig.Driver = val
	}
	if val := os.Getenv("HIF_MQTT_URL"); val != "" {
		defaultConfig.BrokerURL = val
	}
	if val := os.Getenv("HIF_DEVICE_ID"); val != "" {
		defaultConfig.DeviceID = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "device", defaultConfig.Device, "Serial device or ws:// URL.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Baud rate.")
	flag.StringVar(&defaultConfig.Driver, "driver", defaultConfig.Driver, "Serial driver: native, or tarm (reads wait in 100ms steps, drain is estimated from baud).")
	flag.StringVar(&defaultConfig.BrokerURL, "broker", defaultConfig.BrokerURL, "Relay broker URL.")
	flag.StringVar(&defaultConfig.DeviceID, "device-id", defaultConfig.DeviceID, "Device name in relay topics, default is machine ID.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// SerialConfig returns the port configuration.
func (c *Config) SerialConfig() *serial.Config {
	cfg := serial.DefaultConfig(c.Device)
	if c.Baud > 0 {
		cfg.Baud = c.Baud
	}
	if c.Driver != "" {
		cfg.Driver = c.Driver
	}
	return cfg
}

// Open opens the host side link.
func (c *Config) Open() (*hif.Link, error) {
	return hif.Open(c.SerialConfig())
}

// MustOpen opens the link or fails.
func (c *Config) MustOpen() *hif.Link {
	link, err := c.Open()
	if err != nil {
		log.Fatalln(err)
	}
	return link
}

// DeviceName returns DeviceID or the machine ID.
func (c *Config) DeviceName() string {
	if c.DeviceID != "" {
		return c.DeviceID
	}
	return MachineID()
}

// Connect connects to the relay broker.
func (c *Config) Connect() (*mqtt.Queue, error) {
	q, err := mqtt.NewQueueFromURL(c.BrokerURL)
	if err != nil {
		return nil, err
	}
	if err = q.Connect(); err != nil {
		return nil, err
	}
	return q, nil
}

// MustConnect connects to the relay broker or fails.
func (c *Config) MustConnect() *mqtt.Queue {
	q, err := c.Connect()
	if err != nil {
		log.Fatalln(err)
	}
	return q
}
