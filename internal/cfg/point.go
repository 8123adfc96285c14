package cfg

import "github.com/kanso-lang/abstrans/internal/domain"

// NodePoint is (function, node, view): a control point keying the
// semantics store at a specific CFG node (spec §3).
type NodePoint struct {
	Func string
	Node NodeID
	View domain.View
}

// ReturnPoint is (function, view): a control point keying the semantics
// store at a function's return (spec §3).
type ReturnPoint struct {
	Func string
	View domain.View
}

// Ref returns the opaque, driver-independent identity of this node point,
// used to key call_info/ret_edges maps without those maps depending on a
// live domain.View (spec §3's NodePointRef/ReturnPointRef split between the
// core's public control points and domain's closure/continuation payload).
func (np NodePoint) Ref() domain.NodePointRef {
	key := ""
	if np.View != nil {
		key = np.View.Key()
	}
	return domain.NodePointRef{Func: np.Func, Node: int(np.Node), View: key}
}

func (rp ReturnPoint) Ref() domain.ReturnPointRef {
	key := ""
	if rp.View != nil {
		key = rp.View.Key()
	}
	return domain.ReturnPointRef{Func: rp.Func, View: key}
}
