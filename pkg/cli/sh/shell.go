package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/hif.go/pkg/env"
	"github.com/robotalks/hif.go/pkg/hif"
	"github.com/robotalks/hif.go/pkg/modes"
	"github.com/robotalks/hif.go/pkg/serial"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	OutputC     bool // vectors as C initializers
	AutoOpen    bool

	// Timeout bounds a single shell command.
	Timeout time.Duration

	Shell  *ishell.Shell
	Config *env.Config
	Conn   *Conn
}

// Conn is an opened link.
type Conn struct {
	Device     string
	Link       *hif.Link
	Dispatcher *modes.Dispatcher
}

const (
	shellKey       = "$shell"
	closedPrompt   = "[none] > "
	defaultTimeout = 30 * time.Second
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	outputC    bool
	timeout    = defaultTimeout

	// commands
	commands = []*ishell.Cmd{
		&PortsCmd,
		&OpenCmd,
		&CloseCmd,
		&CommandCmd,
		&SendCmd,
		&ReceiveCmd,
		&ReadyCmd,
		&PingCmd,
		&PongCmd,
		&PingPongCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.BoolVar(&outputC, "c", outputC, "Print vectors as C initializers.")
	flag.DurationVar(&timeout, "timeout", timeout, "Timeout of a single command.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		OutputC:     outputC,
		Timeout:     timeout,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(closedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeOpened wraps command func requires an opened link.
func MustBeOpened(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("not opened"))
			return
		}
		fn(c)
	}
}

// VectorJSON is the JSON form of a vector.
type VectorJSON struct {
	Format string  `json:"format"`
	Tag    byte    `json:"tag"`
	Values []int64 `json:"values"`
}

// NewVectorJSON converts a vector for JSON output.
func NewVectorJSON(v hif.Vector) VectorJSON {
	values := v.Values
	if values == nil {
		values = []int64{}
	}
	return VectorJSON{Format: v.Format.String(), Tag: v.Tag, Values: values}
}

// ParseVector parses FORMAT TAG VALUES... into a vector.
func ParseVector(args []string) (hif.Vector, error) {
	if len(args) < 2 {
		return hif.Vector{}, fmt.Errorf("FORMAT and TAG required")
	}
	f, err := hif.ParseFormat(args[0])
	if err != nil {
		return hif.Vector{}, err
	}
	tag, err := strconv.ParseUint(args[1], 0, 8)
	if err != nil {
		return hif.Vector{}, fmt.Errorf("Invalid TAG: %v", err)
	}
	v := hif.Vector{Format: f, Tag: byte(tag), Values: make([]int64, 0, len(args)-2)}
	for _, arg := range args[2:] {
		val, err := strconv.ParseInt(arg, 0, 64)
		if err != nil {
			return hif.Vector{}, fmt.Errorf("Invalid value %q: %v", arg, err)
		}
		v.Values = append(v.Values, val)
	}
	if err := v.Validate(); err != nil {
		return hif.Vector{}, err
	}
	return v, nil
}

// Print prints a result, either as JSON or with the fallback text.
func Print(c *ishell.Context, result interface{}, text string) error {
	if ShellFrom(c).OutputJSON {
		out, err := json.Marshal(result)
		if err != nil {
			c.Err(err)
			return err
		}
		c.Println(string(out))
		return nil
	}
	c.Println(text)
	return nil
}

// PrintVectors prints received vectors.
func PrintVectors(c *ishell.Context, vectors ...hif.Vector) {
	s := ShellFrom(c)
	if s.OutputC && !s.OutputJSON {
		for _, v := range vectors {
			c.Printf("// %s[%d] tag=0x%02x\n%s\n", v.Format, len(v.Values), v.Tag, VectorToC(v.Values))
		}
		return
	}
	if s.OutputJSON {
		out := make([]VectorJSON, len(vectors))
		for n, v := range vectors {
			out[n] = NewVectorJSON(v)
		}
		if len(out) == 1 {
			Print(c, out[0], "")
		} else {
			Print(c, out, "")
		}
		return
	}
	for _, v := range vectors {
		c.Println(v.String())
	}
}

// Do runs fn on the opened link with the shell timeout.
func Do(c *ishell.Context, fn func(ctx context.Context, d *modes.Dispatcher) error) error {
	s := ShellFrom(c)
	if s.Conn == nil {
		err := fmt.Errorf("not opened")
		c.Err(err)
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()
	if err := fn(ctx, s.Conn.Dispatcher); err != nil {
		c.Err(err)
		return err
	}
	return nil
}

// WithAutoOpen sets AutoOpen.
func (s *Shell) WithAutoOpen(en bool) *Shell {
	s.AutoOpen = en
	return s
}

// Open opens the link on a device, replacing the current one.
func (s *Shell) Open(device string) error {
	conf := *s.Config
	if device != "" {
		conf.Device = device
	}
	link, err := conf.Open()
	if err != nil {
		return err
	}
	s.Close()
	s.Conn = &Conn{Device: conf.Device, Link: link, Dispatcher: modes.NewDispatcher(link)}
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", conf.Device))
	return nil
}

// Close closes current link.
func (s *Shell) Close() {
	if s.Conn != nil {
		s.Conn.Link.Close()
		s.Conn = nil
		s.Shell.SetPrompt(closedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoOpen && s.Config.Device != "" {
		if s.Interactive {
			s.Shell.Printf("Opening %s ...\n", s.Config.Device)
		}
		if err := s.Open(""); err != nil {
			log.Fatalf("open %q failed: %v", s.Config.Device, err)
		}
	}
	defer s.Close()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ports, err := serial.ListPorts()
			if err != nil {
				c.Err(err)
				return
			}
			if ports == nil {
				// in case ports is nil, make it empty slice.
				ports = []string{}
			}
			if ShellFrom(c).OutputJSON {
				Print(c, ports, "")
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, port := range ports {
				c.Println(port)
			}
		},
	}

	// OpenCmd opens a link.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "[DEVICE]",
		Func: func(c *ishell.Context) {
			var device string
			if len(c.Args) > 0 {
				device = c.Args[0]
			}
			if err := ShellFrom(c).Open(device); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes current link.
	CloseCmd = ishell.Cmd{
		Name:    "close",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Close()
		},
	}

	// CommandCmd sends a command token.
	CommandCmd = ishell.Cmd{
		Name:    "cmd",
		Aliases: []string{"c"},
		Help:    "TOKEN",
		Func: MustBeOpened(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("TOKEN required"))
				return
			}
			if Do(c, func(ctx context.Context, d *modes.Dispatcher) error {
				return d.Link.SendCommand(ctx, c.Args[0])
			}) == nil {
				Print(c, map[string]bool{"ok": true}, "OK")
			}
		}),
	}

	// SendCmd sends a vector.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "FORMAT TAG VALUES...",
		Func: MustBeOpened(func(c *ishell.Context) {
			v, err := ParseVector(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			if Do(c, func(ctx context.Context, d *modes.Dispatcher) error {
				return d.Link.SendData(ctx, v)
			}) == nil {
				Print(c, map[string]bool{"ok": true}, "OK")
			}
		}),
	}

	// ReceiveCmd receives a vector.
	ReceiveCmd = ishell.Cmd{
		Name:    "recv",
		Aliases: []string{"r"},
		Help:    "",
		Func: MustBeOpened(func(c *ishell.Context) {
			var v hif.Vector
			if Do(c, func(ctx context.Context, d *modes.Dispatcher) (err error) {
				v, err = d.Link.ReceiveData(ctx)
				return
			}) == nil {
				PrintVectors(c, v)
			}
		}),
	}

	// ReadyCmd waits for the device to signal ready.
	ReadyCmd = ishell.Cmd{
		Name: "ready",
		Help: "[TIMEOUT]",
		Func: MustBeOpened(func(c *ishell.Context) {
			wait := hif.DefaultTimeouts().Ready
			if len(c.Args) > 0 {
				val, err := time.ParseDuration(c.Args[0])
				if err != nil {
					c.Err(fmt.Errorf("Invalid TIMEOUT: %v", err))
					return
				}
				wait = val
			}
			if Do(c, func(ctx context.Context, d *modes.Dispatcher) error {
				return d.Link.WaitReady(ctx, wait)
			}) == nil {
				Print(c, map[string]bool{"ok": true}, "OK")
			}
		}),
	}

	// PingCmd sends the test vectors.
	PingCmd = ishell.Cmd{
		Name: "ping",
		Help: "",
		Func: MustBeOpened(func(c *ishell.Context) {
			if Do(c, func(ctx context.Context, d *modes.Dispatcher) error {
				return d.Ping(ctx)
			}) == nil {
				Print(c, map[string]bool{"ok": true}, "OK")
			}
		}),
	}

	// PongCmd receives the test vectors.
	PongCmd = ishell.Cmd{
		Name: "pong",
		Help: "",
		Func: MustBeOpened(func(c *ishell.Context) {
			var vectors []hif.Vector
			err := Do(c, func(ctx context.Context, d *modes.Dispatcher) (err error) {
				vectors, err = d.Pong(ctx)
				return
			})
			if err == nil {
				PrintVectors(c, vectors...)
			}
		}),
	}

	// PingPongCmd sends the test vectors and expects them echoed.
	PingPongCmd = ishell.Cmd{
		Name:    "pingpong",
		Aliases: []string{"pp"},
		Help:    "",
		Func: MustBeOpened(func(c *ishell.Context) {
			var vectors []hif.Vector
			err := Do(c, func(ctx context.Context, d *modes.Dispatcher) (err error) {
				vectors, err = d.PingPong(ctx)
				return
			})
			if err == nil {
				PrintVectors(c, vectors...)
			}
		}),
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).WithAutoOpen(true).Run(flag.Args()...)
}
