package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btclog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/poneglyph/internal/game"
	"github.com/mesh-intelligence/poneglyph/internal/logging"
	"github.com/mesh-intelligence/poneglyph/internal/metrics"
	"github.com/mesh-intelligence/poneglyph/internal/sqlite"
	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

var errBadArgument = errors.New("bad argument")

// session is an attached backend plus the game wired over it.
type session struct {
	settings settings
	log      btclog.Logger
	backend  *sqlite.Backend
	ledger   *sqlite.Ledger
	registry *sqlite.Registry
	events   *sqlite.EventLog
	counters *sqlite.Counters
	metrics  *metrics.Metrics
	game     *game.Game
}

// openSession loads the configuration and attaches the SQLite backend. The
// caller must Close the session.
func openSession(cmd *cobra.Command) (*session, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(s.logLevel)
	if err != nil {
		return nil, err
	}
	logs := logging.New(cmd.ErrOrStderr(), level)
	for _, tag := range logging.Subsystems {
		logs.Logger(tag)
	}

	backend := sqlite.NewBackend(sqlite.WithLogger(logs.Logger(logging.SubsystemStore)))
	if err := backend.Attach(s.config); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	sess := &session{
		settings: s,
		log:      logs.Logger(logging.SubsystemCLI),
		backend:  backend,
		ledger:   sqlite.NewLedger(backend),
		registry: sqlite.NewRegistry(backend),
		events:   sqlite.NewEventLog(backend),
		counters: sqlite.NewCounters(backend),
		metrics:  metrics.New(),
	}

	g, err := game.New(backend, sess.ledger, sess.registry,
		game.WithConfig(s.config.Game),
		game.WithLogger(logs.Logger(logging.SubsystemGame)),
		game.WithMetrics(sess.metrics),
		game.WithEventSink(sess.events),
	)
	if err != nil {
		backend.Detach()
		return nil, err
	}
	sess.game = g
	sess.log.Debugf("data dir %s", s.config.DataDir)
	return sess, nil
}

// Close adds the counters this process moved to the stored totals and
// detaches the backend.
func (s *session) Close() error {
	samples, err := s.metrics.Counters()
	if err == nil {
		err = s.counters.Add(context.Background(), samples)
	}
	if err != nil {
		s.log.Errorf("persist metrics: %v", err)
	}
	return errors.Join(err, s.backend.Detach())
}

func parseID(arg string) (types.ArtifactID, error) {
	id, err := types.ParseArtifactID(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: artifact id: %w", errBadArgument, err)
	}
	return id, nil
}

func parseAmount(arg string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(arg)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q: %w", errBadArgument, arg, types.ErrInvalidAmount)
	}
	return d, nil
}

// addressArg returns args[i] when present, otherwise the --as caller.
func addressArg(args []string, i int) (types.Address, error) {
	if len(args) > i {
		addr := types.Address(args[i])
		return addr, addr.Validate()
	}
	return caller()
}
