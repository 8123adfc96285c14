package domain

// ObjKind distinguishes the shapes of heap object the core allocates.
type ObjKind int

const (
	ObjMap ObjKind = iota
	ObjList
	ObjSymbol
)

// Object is an abstract heap object: a map of named fields, an ordered list
// of elements, or a symbol descriptor, matching the alloc_map/alloc_list/
// alloc_symbol operations of spec §3.
type Object struct {
	Kind   ObjKind
	Fields map[string]AbsValue
	Elems  []AbsValue
	Desc   AbsValue
}

func (o Object) clone() Object {
	n := Object{Kind: o.Kind, Desc: o.Desc}
	if o.Fields != nil {
		n.Fields = make(map[string]AbsValue, len(o.Fields))
		for k, v := range o.Fields {
			n.Fields[k] = v
		}
	}
	if o.Elems != nil {
		n.Elems = append([]AbsValue{}, o.Elems...)
	}
	return n
}

func (o Object) join(p Object) Object {
	n := Object{Kind: o.Kind, Desc: o.Desc.Join(p.Desc)}
	n.Fields = map[string]AbsValue{}
	for k, v := range o.Fields {
		n.Fields[k] = v
	}
	for k, v := range p.Fields {
		if ex, ok := n.Fields[k]; ok {
			n.Fields[k] = ex.Join(v)
		} else {
			n.Fields[k] = v
		}
	}
	maxLen := len(o.Elems)
	if len(p.Elems) > maxLen {
		maxLen = len(p.Elems)
	}
	for i := 0; i < maxLen; i++ {
		var a, b AbsValue
		if i < len(o.Elems) {
			a = o.Elems[i]
		}
		if i < len(p.Elems) {
			b = p.Elems[i]
		}
		n.Elems = append(n.Elems, a.Join(b))
	}
	return n
}

// AbsState is the opaque map-like abstract state from spec §3: a local
// environment, a heap, and a bottom marker, forming a join-semilattice.
type AbsState struct {
	bot     bool
	locals  map[string]AbsValue
	heap    map[Loc]Object
	single  map[Loc]bool
	locType map[Loc]Type
}

// NewState returns the empty, non-bottom abstract state.
func NewState() *AbsState {
	return &AbsState{
		locals:  map[string]AbsValue{},
		heap:    map[Loc]Object{},
		single:  map[Loc]bool{},
		locType: map[Loc]Type{},
	}
}

// BottomState returns the bottom abstract state (spec invariant 2: "bottom
// is absorbing").
func BottomState() *AbsState { return &AbsState{bot: true} }

// IsBottom reports whether s is the bottom state.
func (s *AbsState) IsBottom() bool { return s == nil || s.bot }

// clone returns a deep-enough copy for copy-on-write mutation; the returned
// state shares no mutable maps with s.
func (s *AbsState) clone() *AbsState {
	if s.IsBottom() {
		return BottomState()
	}
	n := &AbsState{
		locals:  make(map[string]AbsValue, len(s.locals)),
		heap:    make(map[Loc]Object, len(s.heap)),
		single:  make(map[Loc]bool, len(s.single)),
		locType: make(map[Loc]Type, len(s.locType)),
	}
	for k, v := range s.locals {
		n.locals[k] = v
	}
	for k, v := range s.heap {
		n.heap[k] = v.clone()
	}
	for k, v := range s.single {
		n.single[k] = v
	}
	for k, v := range s.locType {
		n.locType[k] = v
	}
	return n
}

// Join computes s ⊔ o: bottom is the identity, environments join per-name
// (absent bindings treated as bottom), and heaps join per-location.
func (s *AbsState) Join(o *AbsState) *AbsState {
	if s.IsBottom() {
		return o
	}
	if o.IsBottom() {
		return s
	}
	n := s.clone()
	for k, v := range o.locals {
		if ex, ok := n.locals[k]; ok {
			n.locals[k] = ex.Join(v)
		} else {
			n.locals[k] = v
		}
	}
	for k, v := range o.heap {
		if ex, ok := n.heap[k]; ok {
			n.heap[k] = ex.join(v)
		} else {
			n.heap[k] = v
		}
	}
	for k, v := range o.single {
		if ex, ok := n.single[k]; ok {
			n.single[k] = ex && v
		} else {
			n.single[k] = v
		}
	}
	return n
}

// Leq reports whether s ⊑ o.
func (s *AbsState) Leq(o *AbsState) bool {
	if s.IsBottom() {
		return true
	}
	if o.IsBottom() {
		return false
	}
	for k, v := range s.locals {
		if !v.Leq(o.locals[k]) {
			return false
		}
	}
	for k, obj := range s.heap {
		oo, ok := o.heap[k]
		if !ok {
			if len(obj.Fields) != 0 || len(obj.Elems) != 0 {
				return false
			}
			continue
		}
		for fk, fv := range obj.Fields {
			if !fv.Leq(oo.Fields[fk]) {
				return false
			}
		}
		if len(obj.Elems) > len(oo.Elems) {
			return false
		}
		for i, e := range obj.Elems {
			if !e.Leq(oo.Elems[i]) {
				return false
			}
		}
	}
	return true
}

// Meet computes s ⊓ o.
func (s *AbsState) Meet(o *AbsState) *AbsState {
	if s.IsBottom() || o.IsBottom() {
		return BottomState()
	}
	n := NewState()
	for k, v := range s.locals {
		if ov, ok := o.locals[k]; ok {
			n.locals[k] = v.Meet(ov)
		}
	}
	for k, v := range s.heap {
		if ov, ok := o.heap[k]; ok {
			fields := map[string]AbsValue{}
			for fk, fv := range v.Fields {
				fields[fk] = fv.Meet(ov.Fields[fk])
			}
			n.heap[k] = Object{Kind: v.Kind, Fields: fields}
		}
	}
	return n
}

// DefineLocal binds name to v, returning the updated state (spec §3,
// "define_local").
func (s *AbsState) DefineLocal(name string, v AbsValue) *AbsState {
	if s.IsBottom() {
		return s
	}
	n := s.clone()
	n.locals[name] = v
	return n
}

// LookupLocal reads name's binding, or Bottom if unbound (spec §3,
// "lookup_local").
func (s *AbsState) LookupLocal(name string) AbsValue {
	if s.IsBottom() {
		return Bottom
	}
	return s.locals[name]
}

// Exists reports whether ref denotes a currently-bound location: for an
// identifier, whether it has a binding; for a property reference, whether
// at least one object the base may denote has the field (a non-string key
// counts as present when that object has any field at all) (spec §3,
// "exists", and §4.4's Eq(ref, absent) = not exists(ref)).
func (s *AbsState) Exists(ref RefValue) bool {
	if s.IsBottom() {
		return false
	}
	if !ref.IsProp() {
		_, ok := s.locals[ref.Ident()]
		return ok
	}
	found := false
	for _, loc := range ref.Base().Locs.Elems {
		obj, ok := s.heap[loc]
		if !ok {
			continue
		}
		if kv, ok := ref.Key().GetSingle().Elem(); ok && kv.Kind == TypeString {
			if _, present := obj.Fields[kv.Str]; present {
				found = true
			}
		} else {
			found = found || len(obj.Fields) > 0
		}
	}
	return found
}

// Update writes v through ref, returning the updated state (spec §3,
// "update").
func (s *AbsState) Update(ref RefValue, v AbsValue) *AbsState {
	if s.IsBottom() {
		return s
	}
	if !ref.IsProp() {
		return s.DefineLocal(ref.Ident(), v)
	}
	n := s.clone()
	for _, loc := range ref.Base().Locs.Elems {
		obj := n.heap[loc]
		if obj.Fields == nil {
			obj.Fields = map[string]AbsValue{}
		}
		if kv, ok := ref.Key().GetSingle().Elem(); ok && kv.Kind == TypeString {
			obj.Fields[kv.Str] = v
		} else {
			for k, ex := range obj.Fields {
				obj.Fields[k] = ex.Join(v)
			}
		}
		n.heap[loc] = obj
	}
	return n
}

// Delete removes the binding/field denoted by ref (spec §3, "delete").
func (s *AbsState) Delete(ref RefValue) *AbsState {
	if s.IsBottom() {
		return s
	}
	n := s.clone()
	if !ref.IsProp() {
		delete(n.locals, ref.Ident())
		return n
	}
	for _, loc := range ref.Base().Locs.Elems {
		obj := n.heap[loc]
		if kv, ok := ref.Key().GetSingle().Elem(); ok && kv.Kind == TypeString {
			delete(obj.Fields, kv.Str)
		}
		n.heap[loc] = obj
	}
	return n
}

// Get reads through ref (spec §3, "get(ref_value, cp) -> value"). It takes
// no control point: this flat heap does not need one.
func (s *AbsState) Get(ref RefValue) AbsValue {
	if s.IsBottom() {
		return Bottom
	}
	if !ref.IsProp() {
		return s.LookupLocal(ref.Ident())
	}
	return s.GetKey(ref.Base(), ref.Key())
}

// GetKey reads base[key] directly from values rather than through a
// reference (spec §3, "get(base_value, key_value) -> value").
func (s *AbsState) GetKey(base, key AbsValue) AbsValue {
	if s.IsBottom() {
		return Bottom
	}
	result := Bottom
	kv, kok := key.GetSingle().Elem()
	for _, loc := range base.Locs.Elems {
		obj, ok := s.heap[loc]
		if !ok {
			continue
		}
		switch obj.Kind {
		case ObjList:
			if kok && kv.Kind == TypeNumber && kv.Num == float64(int(kv.Num)) {
				idx := int(kv.Num)
				if idx >= 0 && idx < len(obj.Elems) {
					result = result.Join(obj.Elems[idx])
					continue
				}
			}
			for _, e := range obj.Elems {
				result = result.Join(e)
			}
		default:
			if kok && kv.Kind == TypeString {
				result = result.Join(obj.Fields[kv.Str])
			} else {
				for _, v := range obj.Fields {
					result = result.Join(v)
				}
			}
		}
	}
	return result
}

// Contains reports, as a boolean lattice value, whether elem appears in the
// list at listLoc, optionally comparing only the named field of each
// element (spec §3, "contains(list, elem, field?)").
func (s *AbsState) Contains(listLoc Loc, elem AbsValue, field string) AbsValue {
	if s.IsBottom() {
		return Bottom
	}
	obj, ok := s.heap[listLoc]
	if !ok {
		return AVF
	}
	definite := true
	maybe := false
	for _, e := range obj.Elems {
		cand := e
		if field != "" {
			cand = s.GetKey(e, FromString(field))
		}
		if cand.Equal(elem) {
			maybe = true
		} else if !cand.Meet(elem).IsBottom() {
			maybe = true
			definite = false
		} else {
			definite = false
		}
	}
	switch {
	case !maybe:
		return AVF
	case definite && len(obj.Elems) == 1:
		return AVT
	default:
		return AbsValue{Bool: Top[bool]()}
	}
}

func (s *AbsState) withHeap(loc Loc, mutate func(Object) Object) *AbsState {
	n := s.clone()
	n.heap[loc] = mutate(n.heap[loc])
	return n
}

// Prepend inserts v at the front of the list at loc.
func (s *AbsState) Prepend(loc Loc, v AbsValue) *AbsState {
	if s.IsBottom() {
		return s
	}
	return s.withHeap(loc, func(o Object) Object {
		o.Kind = ObjList
		o.Elems = append([]AbsValue{v}, o.Elems...)
		return o
	})
}

// Append inserts v at the back of the list at loc.
func (s *AbsState) Append(loc Loc, v AbsValue) *AbsState {
	if s.IsBottom() {
		return s
	}
	return s.withHeap(loc, func(o Object) Object {
		o.Kind = ObjList
		o.Elems = append(o.Elems, v)
		return o
	})
}

// Remove removes every element equal to elem from the list at loc.
func (s *AbsState) Remove(loc Loc, elem AbsValue) *AbsState {
	if s.IsBottom() {
		return s
	}
	return s.withHeap(loc, func(o Object) Object {
		var out []AbsValue
		for _, e := range o.Elems {
			if !e.Equal(elem) {
				out = append(out, e)
			} else if !e.GetSingle().IsBottom() && e.GetSingle().IsTop() {
				out = append(out, e) // imprecise element: conservatively keep
			}
		}
		o.Elems = out
		return o
	})
}

// Pop removes and returns the last element of the list at loc, joined over
// every element the abstraction admits as "last" (spec §4.4, "Pop —
// destructive on the list object").
func (s *AbsState) Pop(loc Loc) (AbsValue, *AbsState) {
	if s.IsBottom() {
		return Bottom, s
	}
	obj := s.heap[loc]
	if len(obj.Elems) == 0 {
		return Bottom, s
	}
	last := obj.Elems[len(obj.Elems)-1]
	n := s.withHeap(loc, func(o Object) Object {
		o.Elems = o.Elems[:len(o.Elems)-1]
		return o
	})
	return last, n
}

// AllocMap allocates a fresh map object at loc, returning the updated state.
func (s *AbsState) AllocMap(loc Loc, fields map[string]AbsValue) *AbsState {
	if s.IsBottom() {
		return s
	}
	n := s.clone()
	n.heap[loc] = Object{Kind: ObjMap, Fields: fields}
	n.single[loc] = !n.markedMultiple(loc)
	return n
}

// AllocList allocates a fresh list object at loc.
func (s *AbsState) AllocList(loc Loc, elems []AbsValue) *AbsState {
	if s.IsBottom() {
		return s
	}
	n := s.clone()
	n.heap[loc] = Object{Kind: ObjList, Elems: elems}
	n.single[loc] = !n.markedMultiple(loc)
	return n
}

// AllocSymbol allocates a fresh symbol object at loc with the given
// description value.
func (s *AbsState) AllocSymbol(loc Loc, desc AbsValue) *AbsState {
	if s.IsBottom() {
		return s
	}
	n := s.clone()
	n.heap[loc] = Object{Kind: ObjSymbol, Desc: desc}
	n.single[loc] = !n.markedMultiple(loc)
	return n
}

// CopyObj duplicates the object at src into a fresh location dst (spec
// §4.4, ECopy).
func (s *AbsState) CopyObj(dst, src Loc) *AbsState {
	if s.IsBottom() {
		return s
	}
	n := s.clone()
	n.heap[dst] = n.heap[src].clone()
	n.single[dst] = !n.markedMultiple(dst)
	return n
}

// markedMultiple reports whether loc already had an object before this
// allocation — a second write to the same (site, view) key means the view
// did not distinguish the iterations, so the location is no longer a
// singleton (spec §4.4, EKeys/allocation-site keying feeding is_single).
func (s *AbsState) markedMultiple(loc Loc) bool {
	_, existed := s.heap[loc]
	return existed
}

// Keys returns the field names of the map object at loc, as a fresh list
// value (spec §4.4, EKeys). The caller supplies the location for the new
// list object.
func (s *AbsState) Keys(loc Loc, listLoc Loc) (AbsValue, *AbsState) {
	obj := s.heap[loc]
	var elems []AbsValue
	for k := range obj.Fields {
		elems = append(elems, FromString(k))
	}
	n := s.AllocList(listLoc, elems)
	return FromLoc(listLoc), n
}

// ElemsOf returns a copy of the list object's elements at loc, used by
// EListConcat to flatten several lists into one fresh allocation.
func (s *AbsState) ElemsOf(loc Loc) []AbsValue {
	if s.IsBottom() {
		return nil
	}
	return append([]AbsValue{}, s.heap[loc].Elems...)
}

// SetType refines the declared type of the object at loc (spec §3,
// "set_type").
func (s *AbsState) SetType(loc Loc, t Type) *AbsState {
	if s.IsBottom() {
		return s
	}
	n := s.clone()
	n.locType[loc] = t
	return n
}

// IsSingle reports whether loc is known to be a singleton allocation (spec
// §3, "is_single"), used by the operator evaluator's location-equality rule
// (spec §4.5).
func (s *AbsState) IsSingle(loc Loc) bool {
	if s.IsBottom() {
		return false
	}
	single, ok := s.single[loc]
	return !ok || single
}

// LocalsSnapshot returns a copy of every current local binding, used by
// ECont to capture the whole environment (spec §4.4).
func (s *AbsState) LocalsSnapshot() map[string]AbsValue {
	out := make(map[string]AbsValue, len(s.locals))
	for k, v := range s.locals {
		out[k] = v
	}
	return out
}

// Copied returns a state identical to s except its locals are replaced by
// locals (spec §3, "copied(locals := …)"), used when building a callee's or
// continuation's initial state from captured/argument bindings.
func (s *AbsState) Copied(locals map[string]AbsValue) *AbsState {
	if s.IsBottom() {
		return s
	}
	n := s.clone()
	n.locals = map[string]AbsValue{}
	for k, v := range locals {
		n.locals[k] = v
	}
	return n
}

// DoReturn merges this (callee exit) state's heap into callerState and binds
// lhs to value in the result (spec §3, "do_return(caller_state, (lhs,
// value)) -> state").
func (s *AbsState) DoReturn(callerState *AbsState, lhs string, value AbsValue) *AbsState {
	if s.IsBottom() || callerState.IsBottom() {
		return BottomState()
	}
	merged := callerState.clone()
	for k, v := range s.heap {
		if ex, ok := merged.heap[k]; ok {
			merged.heap[k] = ex.join(v)
		} else {
			merged.heap[k] = v
		}
	}
	if lhs != "" {
		merged.locals[lhs] = value
	}
	return merged
}
