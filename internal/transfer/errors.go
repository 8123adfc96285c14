package transfer

import "fmt"

// Exploded signals precision loss the current domain cannot safely
// approximate (spec §7, error kind 2): an abort naming the imprecise site,
// e.g. "EGetChildren", "ETypeCheck". This is an analysis failure, not a
// program bug — the driver may catch it to report a failed analysis rather
// than crashing.
type Exploded struct{ Tag string }

func (e *Exploded) Error() string { return fmt.Sprintf("exploded(%s)", e.Tag) }

// explode aborts the current transfer call. It is implemented as a panic
// rather than a threaded error return because exploded must "propagate out
// of the whole transfer call" (spec §7) through an arbitrarily deep chain
// of C1-C9 calls that otherwise have nothing useful to do with it except
// pass it along unexamined; Run recovers it at the one boundary that does.
func explode(tag string) { panic(&Exploded{Tag: tag}) }

// HardError signals malformed IR or an invalid SDO target (spec §7, error
// kind 3): should never occur against a well-formed CFG, and propagates to
// the driver the same way Exploded does.
type HardError struct{ Msg string }

func (e *HardError) Error() string { return e.Msg }

func hardError(msg string) { panic(&HardError{Msg: msg}) }

// Run executes fn and converts an Exploded or HardError panic raised
// anywhere within it into a returned error (spec §7's propagation policy).
// Any other panic is a genuine bug and is re-raised unchanged.
func Run(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch e := r.(type) {
		case *Exploded:
			err = e
		case *HardError:
			err = e
		default:
			panic(r)
		}
	}()
	fn()
	return nil
}
