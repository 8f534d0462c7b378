package worker

import (
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// GoSafe runs fn in g, turning a panic into the group's error
func GoSafe(g *errgroup.Group, name string, fn func()) {
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = eris.Errorf("%s: panic: %v", name, r)
			}
		}()
		fn()
		return nil
	})
}
