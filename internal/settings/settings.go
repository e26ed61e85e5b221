// Package settings defines the proxy's command-line surface (spec.md §6
// "External interfaces") as a Settings struct populated by cobra/pflag,
// the way the rest of this tree favors a typed struct over scattered
// flag.Get calls.
package settings

import (
	"os"

	"github.com/spf13/cobra"
)

// Settings is the fully-parsed configuration for one run of the proxy.
type Settings struct {
	ProxyDisplay string // --proxydisplay, in display (proxy listens here)
	Display      string // --display, out display (real server)

	ReadWriteDebug     bool // --readwritedebug
	StopIfNoActiveConn bool // --stopifnoactiveconnx
	WaitForClient      bool // --waitforclient
	DenyAllExtensions  bool // --denyallextensions
	CopyAuth           bool // --copyauth
	PrefetchAtoms      bool // --prefetchatoms
	SystemTimeFormat   bool // --systemtimeformat
	SeccompChild       bool // --seccompchild

	Verbose       bool // -v / --verbose
	Multiline     bool // --multiline
	MaxListLength int  // --maxlistlength
	LogCompress   bool // --logcompress, write the log stream through xz

	// Command is the trailing "-- <prog> <args>..." child subcommand, if any.
	Command []string
}

// defaultProxyDisplay mirrors the reference's "fall back to :9" default
// when neither --proxydisplay nor $PROXYDISPLAY is set.
const defaultProxyDisplay = ":9"

// New builds the cobra command that parses os.Args into a Settings. The
// caller invokes Execute (or ExecuteContext) on the returned command; cb
// is invoked with the fully-populated Settings once flags and the
// trailing "-- prog args..." have been split out.
func New(cb func(*Settings) error) *cobra.Command {
	s := &Settings{
		StopIfNoActiveConn: true,
		MaxListLength:      0,
	}

	cmd := &cobra.Command{
		Use:           "x11trace [flags] [-- prog args...]",
		Short:         "Intercepting, decoding proxy for the X11 wire protocol",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s.Command = args
			if s.ProxyDisplay == "" {
				s.ProxyDisplay = os.Getenv("PROXYDISPLAY")
			}
			if s.ProxyDisplay == "" {
				s.ProxyDisplay = defaultProxyDisplay
			}
			if s.Display == "" {
				s.Display = os.Getenv("DISPLAY")
			}
			return cb(s)
		},
	}
	cmd.Flags().SetInterspersed(false)

	flags := cmd.Flags()
	flags.StringVar(&s.ProxyDisplay, "proxydisplay", "", "in display the proxy listens on (default $PROXYDISPLAY or :9)")
	flags.StringVar(&s.Display, "display", "", "out display of the real X server (default $DISPLAY)")
	flags.BoolVar(&s.ReadWriteDebug, "readwritedebug", false, "log one extra line per buffer read/write with byte count")
	flags.BoolVar(&s.StopIfNoActiveConn, "stopifnoactiveconnx", true, "exit the main loop when the last connection closes")
	flags.BoolVar(&s.WaitForClient, "waitforclient", false, "do not exit just because the child subcommand exited")
	flags.BoolVar(&s.DenyAllExtensions, "denyallextensions", false, "treat every QueryExtension reply as \"not present\"")
	flags.BoolVar(&s.CopyAuth, "copyauth", false, "copy an Xauthority entry for the proxy display before launching")
	flags.BoolVar(&s.PrefetchAtoms, "prefetchatoms", false, "prefetch predefined+custom atom names before accepting clients")
	flags.BoolVar(&s.SystemTimeFormat, "systemtimeformat", false, "render TIMESTAMPs as wall-clock time")
	flags.BoolVar(&s.SeccompChild, "seccompchild", false, "install a seccomp-bpf filter around the trailing child subcommand")
	flags.BoolVarP(&s.Verbose, "verbose", "v", false, "enable debug-level logging; fields are printed with their protocol names whether or not this is set")
	flags.BoolVar(&s.Multiline, "multiline", false, "indent fields one per line instead of a single log line")
	flags.IntVar(&s.MaxListLength, "maxlistlength", 0, "truncate LISTof<T> rendering to N elements (0 = unlimited)")
	flags.BoolVar(&s.LogCompress, "logcompress", false, "write the log stream through xz instead of plaintext")

	return cmd
}
