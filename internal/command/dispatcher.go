package command

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"economy/internal/model"
	"economy/internal/service"
	"economy/pkg/money"
)

// ============================================================================
// Command dispatch
// ============================================================================
//
//   /economy <subcommand> [args...]
//
// Each subcommand is one entry of a name -> Command table. A handler parses
// its arguments, calls the ledger once and reports the outcome to the sender.
// Every ledger error becomes a message; nothing is retried.
//
// ============================================================================

const (
	RootName       = "economy"
	PermissionRoot = "economy"
	PermissionAll  = "economy.*"
)

// Sender is whoever typed the command: a player or the server console.
type Sender interface {
	Name() string
	// PlayerID returns false for non-player senders.
	PlayerID() (uuid.UUID, bool)
	HasPermission(node string) bool
	SendMessage(msg string)
}

// Ledger is the subset of *service.Ledger the commands call.
type Ledger interface {
	LookupPlayer(ctx context.Context, name string) (service.Player, error)
	GetPlayerBalance(ctx context.Context, playerID uuid.UUID) (money.Amount, error)
	SetPlayerBalance(ctx context.Context, playerID uuid.UUID, amount money.Amount) error
	AddPlayerBalance(ctx context.Context, playerID uuid.UUID, amount money.Amount) error
	RemovePlayerBalance(ctx context.Context, playerID uuid.UUID, amount money.Amount) error
	TransferByPlayer(ctx context.Context, from, to uuid.UUID, amount money.Amount) error
	GetTopAccounts(ctx context.Context, limit, offset int) ([]model.TopEntry, error)
}

// Handler runs a subcommand. It returns false when args do not match the
// command's usage.
type Handler func(ctx context.Context, s Sender, args []string) bool

// Completer suggests values for the argument currently being typed.
type Completer func(s Sender, args []string) []string

type Command struct {
	Name       string
	Usage      string
	Permission string
	PlayerOnly bool
	Run        Handler
	Complete   Completer
}

// Dispatcher routes /economy subcommands.
type Dispatcher struct {
	ledger   Ledger
	commands map[string]*Command
	pageSize int
	players  func() []string
	log      *logrus.Entry
}

type Option func(*Dispatcher)

// WithPageSize sets the number of balancetop rows per page.
func WithPageSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.pageSize = n
		}
	}
}

// WithPlayerNames supplies the online player names used for completion.
func WithPlayerNames(fn func() []string) Option {
	return func(d *Dispatcher) {
		d.players = fn
	}
}

func WithLogger(log *logrus.Entry) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDispatcher builds the table of economy subcommands.
func NewDispatcher(ledger Ledger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		ledger:   ledger,
		commands: make(map[string]*Command),
		pageSize: 10,
		players:  func() []string { return nil },
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.WithField("component", "command")

	d.Register(&Command{Name: "balance", Usage: "balance", PlayerOnly: true, Run: d.balance})
	d.Register(&Command{Name: "pay", Usage: "pay <player> <amount>", PlayerOnly: true, Run: d.pay, Complete: d.completeTransfer})
	d.Register(&Command{Name: "set", Usage: "set <player> <amount>", Run: d.set, Complete: d.completeTransfer})
	d.Register(&Command{Name: "add", Usage: "add <player> <amount>", Run: d.add, Complete: d.completeTransfer})
	d.Register(&Command{Name: "remove", Usage: "remove <player> <amount>", Run: d.remove, Complete: d.completeTransfer})
	d.Register(&Command{Name: "balancetop", Usage: "balancetop [page]", Run: d.balanceTop})
	return d
}

// Register adds or replaces a subcommand. An empty Permission defaults to
// "economy.<name>".
func (d *Dispatcher) Register(cmd *Command) {
	if cmd.Permission == "" {
		cmd.Permission = PermissionRoot + "." + cmd.Name
	}
	d.commands[cmd.Name] = cmd
}

// Lookup returns the subcommand registered under name.
func (d *Dispatcher) Lookup(name string) (*Command, bool) {
	cmd, ok := d.commands[name]
	return cmd, ok
}

// Names lists the registered subcommands in lexical order.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func allowed(s Sender, cmd *Command) bool {
	return s.HasPermission(cmd.Permission) || s.HasPermission(PermissionAll)
}

// Execute runs "/economy args...". It returns false when no subcommand
// matched or the arguments did not fit its usage; the usage line has then
// already been sent.
func (d *Dispatcher) Execute(ctx context.Context, s Sender, args []string) bool {
	if len(args) == 0 {
		s.SendMessage(d.rootUsage())
		return false
	}

	cmd, ok := d.commands[args[0]]
	if !ok {
		s.SendMessage(d.rootUsage())
		return false
	}

	if !allowed(s, cmd) {
		s.SendMessage(msgNoPermission)
		return true
	}
	if cmd.PlayerOnly {
		if _, isPlayer := s.PlayerID(); !isPlayer {
			s.SendMessage(msgPlayerOnly)
			return true
		}
	}

	d.log.WithFields(logrus.Fields{
		"sender":     s.Name(),
		"subcommand": cmd.Name,
	}).Debug("command")

	if !cmd.Run(ctx, s, args[1:]) {
		s.SendMessage("Usage: /" + RootName + " " + cmd.Usage)
		return false
	}
	return true
}

// Complete returns suggestions for the last element of args.
func (d *Dispatcher) Complete(s Sender, args []string) []string {
	if len(args) <= 1 {
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		var out []string
		for _, name := range d.Names() {
			if !allowed(s, d.commands[name]) {
				continue
			}
			if strings.HasPrefix(name, prefix) {
				out = append(out, name)
			}
		}
		return out
	}

	cmd, ok := d.commands[args[0]]
	if !ok || cmd.Complete == nil || !allowed(s, cmd) {
		return nil
	}
	return cmd.Complete(s, args[1:])
}

func (d *Dispatcher) rootUsage() string {
	return "Usage: /" + RootName + " <" + strings.Join(d.Names(), "|") + ">"
}

func (d *Dispatcher) completeTransfer(_ Sender, args []string) []string {
	switch len(args) {
	case 1:
		var out []string
		for _, name := range d.players() {
			if strings.HasPrefix(strings.ToLower(name), strings.ToLower(args[0])) {
				out = append(out, name)
			}
		}
		return out
	case 2:
		return []string{"100", "1000", "10000"}
	default:
		return nil
	}
}
