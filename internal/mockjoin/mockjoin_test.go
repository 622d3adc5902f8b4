package mockjoin

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/danmuck/surveyctl/internal/comm"
	"github.com/danmuck/surveyctl/internal/testutil/testlog"
	"github.com/danmuck/surveyctl/internal/tools"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func countWarnings(buf *bytes.Buffer) int {
	return strings.Count(buf.String(), `"level":"warn"`)
}

func TestResolveForceAliasWarnsOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	opts, err := Resolve(Flags{MockDir: "/mocks", Force: true}, nil, logger)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !opts.Overwrite {
		t.Fatalf("expected --force to enable overwrite")
	}
	if n := countWarnings(&buf); n != 1 {
		t.Fatalf("expected exactly one deprecation warning, got %d: %s", n, buf.String())
	}
	if !strings.Contains(buf.String(), "deprecated") {
		t.Fatalf("unexpected warning: %s", buf.String())
	}
}

func TestResolveForceWarnsOnlyOnPrimary(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	for rank := 0; rank < 4; rank++ {
		world := &comm.World{Rank: rank, Size: 4}
		opts, err := Resolve(Flags{MockDir: "/mocks", Force: true, MPI: true}, world, logger)
		if err != nil {
			t.Fatalf("resolve rank %d: %v", rank, err)
		}
		if !opts.Overwrite {
			t.Fatalf("rank %d: expected overwrite", rank)
		}
	}
	if n := countWarnings(&buf); n != 1 {
		t.Fatalf("expected one warning across ranks, got %d", n)
	}
}

func TestResolveOverwriteNoWarning(t *testing.T) {
	var buf bytes.Buffer
	opts, err := Resolve(Flags{MockDir: "/mocks", Overwrite: true}, nil, zerolog.New(&buf))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !opts.Overwrite {
		t.Fatalf("expected overwrite")
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected log output: %s", buf.String())
	}
}

func TestResolveOutDirDefaultsToMockDir(t *testing.T) {
	opts, err := Resolve(Flags{MockDir: "/global/mocks/dark"}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if opts.OutDir != "/global/mocks/dark" {
		t.Fatalf("expected outdir to default to mockdir, got %q", opts.OutDir)
	}
	if opts.Overwrite {
		t.Fatalf("overwrite must default to false")
	}
	if opts.World != nil {
		t.Fatalf("expected nil world")
	}

	opts, err = Resolve(Flags{MockDir: "/mocks", OutDir: "/out"}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if opts.OutDir != "/out" {
		t.Fatalf("unexpected outdir: %q", opts.OutDir)
	}
}

func TestResolveRequiresMockDir(t *testing.T) {
	if _, err := Resolve(Flags{OutDir: "/out"}, nil, zerolog.Nop()); !errors.Is(err, ErrMissingMockDir) {
		t.Fatalf("expected ErrMissingMockDir, got %v", err)
	}
}

func TestRunPassesResolvedOptions(t *testing.T) {
	logger := testlog.Start(t)
	world := &comm.World{Rank: 0, Size: 2}
	want := Options{MockDir: "/mocks", OutDir: "/out", Overwrite: true, World: world}

	var got Options
	joiner := JoinerFunc(func(ctx context.Context, opts Options) error {
		got = opts
		return nil
	})
	if err := Run(context.Background(), joiner, want, logger); err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestRunPropagatesJoinFailure(t *testing.T) {
	boom := errors.New("pixel 1234 unreadable")
	joiner := JoinerFunc(func(context.Context, Options) error { return boom })
	err := Run(context.Background(), joiner, Options{MockDir: "/m", OutDir: "/m"}, zerolog.Nop())
	if !errors.Is(err, boom) {
		t.Fatalf("expected join failure, got %v", err)
	}
}

type fakeRunner struct {
	commands []tools.Command
	code     int32
	err      error
}

func (r *fakeRunner) Run(ctx context.Context, cmd tools.Command) ([]byte, []byte, int32, error) {
	code, err := r.RunStreaming(ctx, cmd, io.Discard, io.Discard)
	return nil, nil, code, err
}

func (r *fakeRunner) RunStreaming(_ context.Context, cmd tools.Command, _, _ io.Writer) (int32, error) {
	r.commands = append(r.commands, cmd)
	return r.code, r.err
}

func TestCommandJoinerSingleProcess(t *testing.T) {
	runner := &fakeRunner{}
	joiner := &CommandJoiner{Command: []string{"python", "-m", "join"}, Runner: runner}

	err := joiner.Join(context.Background(), Options{MockDir: "/m", OutDir: "/o"})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if len(runner.commands) != 1 {
		t.Fatalf("expected one command, got %d", len(runner.commands))
	}
	want := tools.Command{
		Name: "python",
		Args: []string{"-m", "join", "--mockdir", "/m", "--outdir", "/o"},
	}
	if diff := cmp.Diff(want, runner.commands[0]); diff != "" {
		t.Fatalf("command mismatch (-want +got):\n%s", diff)
	}
}

func TestCommandJoinerDistributed(t *testing.T) {
	runner := &fakeRunner{}
	joiner := &CommandJoiner{Command: []string{"join_mock_targets"}, Runner: runner}

	world := &comm.World{Rank: 1, Size: 3}
	err := joiner.Join(context.Background(), Options{MockDir: "/m", OutDir: "/m", Overwrite: true, World: world})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	want := tools.Command{
		Name: "join_mock_targets",
		Args: []string{"--mockdir", "/m", "--outdir", "/m", "--overwrite", "--mpi"},
		Env:  []string{comm.EnvRank + "=1", comm.EnvSize + "=3"},
	}
	if diff := cmp.Diff(want, runner.commands[0]); diff != "" {
		t.Fatalf("command mismatch (-want +got):\n%s", diff)
	}
}

func TestCommandJoinerFailure(t *testing.T) {
	cause := &tools.ExitError{Command: "join_mock_targets", ExitCode: 2, Err: errors.New("exit status 2")}
	runner := &fakeRunner{code: 2, err: cause}
	joiner := &CommandJoiner{Command: []string{"join_mock_targets"}, Runner: runner}

	err := joiner.Join(context.Background(), Options{MockDir: "/m", OutDir: "/m"})
	var exitErr *tools.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode != 2 {
		t.Fatalf("expected wrapped exit error, got %v", err)
	}
}

func TestCommandJoinerNotConfigured(t *testing.T) {
	joiner := &CommandJoiner{Runner: &fakeRunner{}}
	if err := joiner.Join(context.Background(), Options{MockDir: "/m", OutDir: "/m"}); err == nil {
		t.Fatalf("expected configuration error")
	}
}
