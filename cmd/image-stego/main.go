// image-stego hides ASCII messages in the low bits of PNG and BMP images.
//
// Usage:
//
//	image-stego FILE -l R,G,B -m MESSAGE [-s SEED] > stego.png
//	image-stego FILE -l R,G,B [-s SEED]
//	image-stego FILE -b [-s SEED]
//	image-stego serve [--config PATH]
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/ironsheep/image-stego/internal/config"
	"github.com/ironsheep/image-stego/internal/imaging"
	"github.com/ironsheep/image-stego/internal/server"
	"github.com/ironsheep/image-stego/internal/stego"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// exitInterrupted is the status used when SIGINT arrives.
const exitInterrupted = 255

func main() {
	// Logging goes to stderr; stdout carries the image, message or MCP stream.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	go func() {
		<-interrupts
		os.Exit(exitInterrupted)
	}()

	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(os.Args[2:]); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case "--version", "-V", "version":
		fmt.Printf("image-stego %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
	case "--help", "-h", "help":
		printUsage(os.Stdout)
	default:
		if err := run(os.Args[1:], os.Stdout); err != nil {
			var usage usageError
			if errors.As(err, &usage) {
				fmt.Fprintf(os.Stderr, "image-stego: %v\n", err)
				os.Exit(2)
			}
			fmt.Fprintln(os.Stderr, describe(err))
			os.Exit(1)
		}
	}
}

// usageError marks a problem with the command line itself.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

// options are the parsed command-line arguments of the default command.
type options struct {
	file       string
	bits       stego.BitConfig
	message    string
	seed       string
	brute      bool
	configPath string
	cfg        config.Config
}

// parseArgs parses args for the default command. FILE may appear anywhere,
// and -l accepts either "R,G,B" or three separate values.
func parseArgs(args []string) (*options, error) {
	fs := flag.NewFlagSet("image-stego", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		opts    options
		lsb     string
		message string
		seed    string
	)
	fs.StringVar(&lsb, "l", "", "least significant bits for each color channel, R,G,B (0-8 each)")
	fs.StringVar(&message, "m", "", "message to embed")
	fs.StringVar(&seed, "s", "", "pseudo-random number generator seed")
	fs.BoolVar(&opts.brute, "b", false, "use brute force technique to extract")
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, usageError{err.Error()}
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}

	if len(positional) == 0 {
		return nil, usageError{"FILE is required"}
	}
	opts.file, positional = takeFile(positional)
	if _, err := imaging.FormatFromPath(opts.file); err != nil {
		return nil, usageError{"invalid extension"}
	}

	// "-l 0 1 2": the second and third values land in positional.
	if lsb != "" && !strings.ContainsAny(lsb, ", ") && len(positional) >= 2 {
		lsb = strings.Join([]string{lsb, positional[0], positional[1]}, ",")
		positional = positional[2:]
	}
	if len(positional) > 0 {
		return nil, usageError{fmt.Sprintf("unexpected arguments: %s", strings.Join(positional, " "))}
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	opts.cfg = cfg

	switch {
	case lsb != "":
		bits, err := stego.ParseBitConfig(lsb)
		if err != nil {
			return nil, usageError{fmt.Sprintf("-l %s: %v", lsb, err)}
		}
		opts.bits = bits
	case !opts.brute:
		return nil, usageError{"-l R,G,B is required"}
	}

	for i := 0; i < len(message); i++ {
		if message[i] > 127 {
			return nil, usageError{"not ascii compatible"}
		}
	}
	if message != "" && opts.brute {
		return nil, usageError{"-b cannot be combined with -m"}
	}
	opts.message = message

	opts.seed = cfg.Seed
	if set["s"] {
		opts.seed = seed
	}

	if cfg.Debug() {
		log.Printf("image-stego %s: file=%s bits=%s brute=%t seeded=%t", Version, opts.file, opts.bits, opts.brute, opts.seed != "")
	}
	return &opts, nil
}

// takeFile removes and returns the first argument naming a .png or .bmp
// file, or the first argument when none does.
func takeFile(args []string) (string, []string) {
	idx := 0
	for i, a := range args {
		if _, err := imaging.FormatFromPath(a); err == nil {
			idx = i
			break
		}
	}
	rest := append(append([]string{}, args[:idx]...), args[idx+1:]...)
	return args[idx], rest
}

// run executes the default command, writing its payload to stdout.
func run(args []string, stdout io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg := opts.cfg
	limits := imaging.Limits{MinPixels: cfg.MinPixels, MaxPixels: cfg.MaxPixels}

	img, err := imaging.OpenImage(opts.file, limits)
	if err != nil {
		return err
	}
	grid, err := imaging.ToGrid(img)
	if err != nil {
		return err
	}

	if opts.message != "" {
		if err := stego.Hide(grid, opts.bits, opts.message, opts.seed); err != nil {
			return err
		}
		out, err := imaging.FromGrid(grid, img.Bounds())
		if err != nil {
			return err
		}
		// Encode fully before writing so a failure leaves stdout empty.
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, out, opts.file); err != nil {
			return err
		}
		_, err = stdout.Write(buf.Bytes())
		return err
	}

	var msg string
	if opts.brute {
		m, err := stego.RevealBrute(grid, opts.seed)
		if err != nil {
			return err
		}
		if cfg.Debug() {
			log.Printf("Found message with bits %s after %d attempts", m.Config, m.Attempts)
		}
		msg = m.Message
	} else {
		msg, err = stego.Reveal(grid, opts.bits, opts.seed)
		if err != nil {
			return err
		}
	}
	_, err = io.WriteString(stdout, msg)
	return err
}

// describe turns an error from the core or the image layer into the message
// printed before exiting.
func describe(err error) string {
	var overflow *stego.CharacterOverflowError
	var pixels *imaging.PixelCountError

	switch {
	case errors.As(err, &overflow):
		return fmt.Sprintf("character overflow %d", overflow.N)
	case errors.Is(err, stego.ErrMessageContainsTerminator):
		return fmt.Sprintf("message contains the suffix %s", stego.Terminator)
	case errors.Is(err, stego.ErrNotFound), errors.Is(err, stego.ErrNoMessageFound):
		return "no embedded message found"
	case errors.Is(err, imaging.ErrUnsupportedMode):
		return "invalid image mode"
	case errors.As(err, &pixels) && errors.Is(err, imaging.ErrTooFewPixels):
		return fmt.Sprintf("need more pixels %d", pixels.Limit-pixels.Pixels)
	case errors.Is(err, stego.ErrNonASCII):
		return "not ascii compatible"
	case errors.Is(err, stego.ErrInvalidConfig):
		return "no lsb"
	}
	return err.Error()
}

// runServe starts the MCP server on stdin/stdout.
func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if cfg.Debug() {
		log.Printf("image-stego MCP server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	server.Version = Version
	return server.New(cfg).Run()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "image-stego - lsb-based image steganography tool")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  image-stego FILE -l R,G,B -m MESSAGE [-s SEED] > stego.png")
	fmt.Fprintln(w, "  image-stego FILE -l R,G,B [-s SEED]")
	fmt.Fprintln(w, "  image-stego FILE -b [-s SEED]")
	fmt.Fprintln(w, "  image-stego serve [--config PATH]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -l R,G,B         Least significant bits per channel, 0-8 each (also: -l R G B)")
	fmt.Fprintln(w, "  -m MESSAGE       ASCII message to embed; the stego image is written to stdout")
	fmt.Fprintln(w, "  -s SEED          Pseudo-random pixel order seed")
	fmt.Fprintln(w, "  -b               Try every bit configuration when extracting")
	fmt.Fprintln(w, "  --config PATH    YAML configuration file")
	fmt.Fprintln(w, "  -V, --version    Print version information")
	fmt.Fprintln(w, "  -h, --help       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s=PATH          Configuration file\n", config.EnvConfigPath)
	fmt.Fprintf(w, "  %s=debug      Enable debug logging\n", config.EnvLogLevel)
	fmt.Fprintf(w, "  %s=SEED             Default seed\n", config.EnvSeed)
	fmt.Fprintf(w, "  %s=N          Largest image accepted\n", config.EnvMaxPixels)
}
