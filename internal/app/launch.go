package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gol-node/internal/bus"
	"gol-node/pkg/core"

	// Registered programs.
	_ "gol-node/internal/sims/chatter"
	_ "gol-node/internal/sims/laserscan"
	_ "gol-node/pkg/sims/life"
)

// ErrUnknownProgram reports a -run entry with no registered factory.
var ErrUnknownProgram = errors.New("unknown program")

type launched struct {
	node    *bus.Node
	program core.Program
}

// Launch starts every requested program on its own node and spins until ctx
// is cancelled or every program has finished on its own. Logs go to out.
func Launch(ctx context.Context, c *Config, out io.Writer) error {
	names := c.Programs()
	if len(names) == 0 {
		return fmt.Errorf("%w: nothing to run", ErrUnknownProgram)
	}
	bctx := bus.NewContext(bus.Options{Output: out})

	var running []launched
	for _, name := range names {
		l, err := attach(bctx, c, name)
		if err != nil {
			bctx.Shutdown()
			return err
		}
		running = append(running, l)
	}

	if c.Describe {
		bctx.Shutdown()
		return describe(out, running)
	}

	var dones []<-chan struct{}
	for _, l := range running {
		dones = append(dones, l.program.Done())
		l.node.Post(l.program.Start)
	}

	spinCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for _, done := range dones {
			if done == nil {
				return
			}
			select {
			case <-done:
			case <-spinCtx.Done():
				return
			}
		}
		cancel()
	}()

	err := bctx.Spin(spinCtx)
	// Executors are gone; stopping from here cannot race a callback.
	for _, l := range running {
		l.program.Stop()
	}
	return err
}

func attach(bctx *bus.Context, c *Config, name string) (launched, error) {
	factory, ok := core.Programs()[name]
	if !ok {
		return launched{}, fmt.Errorf("%w %q (have %v)", ErrUnknownProgram, name, core.ProgramNames())
	}
	node, err := bctx.NewNode(name+"_node", c.Namespace)
	if err != nil {
		return launched{}, err
	}
	prog, err := factory(node, c.ProgramConfig(name))
	if err != nil {
		return launched{}, err
	}
	return launched{node: node, program: prog}, nil
}

func describe(w io.Writer, running []launched) error {
	for _, l := range running {
		if _, err := fmt.Fprintf(w, "# %s on %s\n", l.program.Name(), l.node.FullName()); err != nil {
			return err
		}
		provider, ok := l.program.(core.ParameterProvider)
		if !ok {
			continue
		}
		if err := provider.Parameters().Write(w); err != nil {
			return err
		}
	}
	return nil
}
