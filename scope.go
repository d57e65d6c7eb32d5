package folio

// scopeID indexes a scope record within a render's scopeArena.
type scopeID int

// noScope is the parent of a root scope.
const noScope scopeID = -1

type scopeRecord struct {
	vars   Object
	parent scopeID
}

// scopeArena holds every scope created during a single render. Scopes refer
// to their parent by index, so the whole chain goes away with the arena when
// the render returns.
type scopeArena struct {
	records []scopeRecord
}

// push creates a scope holding vars whose lookups fall through to parent.
// vars may be nil.
func (a *scopeArena) push(vars Object, parent scopeID) scopeID {
	a.records = append(a.records, scopeRecord{vars: vars, parent: parent})
	return scopeID(len(a.records) - 1)
}

// resolve looks name up in id and then in each of its ancestors, returning
// false if no scope in the chain binds it.
func (a *scopeArena) resolve(name string, id scopeID) (Value, bool) {
	for id != noScope {
		rec := a.records[id]
		if rec.vars != nil {
			if v, ok := lookup(rec.vars, name); ok {
				return v, true
			}
		}
		id = rec.parent
	}
	return Null, false
}
