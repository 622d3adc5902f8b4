package mockjoin

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/surveyctl/internal/tools"
)

// CommandJoiner delegates the join to an external command.
type CommandJoiner struct {
	Command []string
	Runner  tools.Runner
	Stdout  io.Writer
	Stderr  io.Writer
}

func NewCommandJoiner(command []string) *CommandJoiner {
	return &CommandJoiner{
		Command: command,
		Runner:  tools.ExecRunner{},
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

func (j *CommandJoiner) Join(ctx context.Context, opts Options) error {
	cmd, err := j.command(opts)
	if err != nil {
		return err
	}
	if _, err := j.Runner.RunStreaming(ctx, cmd, j.Stdout, j.Stderr); err != nil {
		return fmt.Errorf("mockjoin: join failed: %w", err)
	}
	return nil
}

func (j *CommandJoiner) command(opts Options) (tools.Command, error) {
	if len(j.Command) == 0 {
		return tools.Command{}, fmt.Errorf("mockjoin: join command not configured")
	}
	args := append([]string{}, j.Command[1:]...)
	args = append(args, "--mockdir", opts.MockDir, "--outdir", opts.OutDir)
	if opts.Overwrite {
		args = append(args, "--overwrite")
	}
	if opts.World.Distributed() {
		args = append(args, "--mpi")
	}
	return tools.Command{
		Name: j.Command[0],
		Args: args,
		Env:  opts.World.Env(),
	}, nil
}
