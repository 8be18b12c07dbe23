package ecs

// singletonIndex maps a singleton-tagged component type-id to its single
// owning entity. At most one entity may hold a singleton-marked component
// type at a time.
type singletonIndex struct {
	marked map[ComponentTypeID]bool
	owner  map[ComponentTypeID]Entity
}

func newSingletonIndex() *singletonIndex {
	return &singletonIndex{marked: map[ComponentTypeID]bool{}, owner: map[ComponentTypeID]Entity{}}
}

func (s *singletonIndex) mark(id ComponentTypeID) { s.marked[id] = true }

func (s *singletonIndex) isSingleton(id ComponentTypeID) bool { return s.marked[id] }

// ownerOf returns the current owner of a singleton type, if one exists.
func (s *singletonIndex) ownerOf(id ComponentTypeID) (Entity, bool) {
	e, ok := s.owner[id]
	return e, ok
}

// setOwner records e as id's owner. It is the caller's responsibility
// (World.SetSingleton) to reject a second distinct owner before calling
// this.
func (s *singletonIndex) setOwner(id ComponentTypeID, e Entity) { s.owner[id] = e }

func (s *singletonIndex) clearOwner(id ComponentTypeID) { delete(s.owner, id) }

// removeEntity drops e as owner of any singleton type it currently holds.
func (s *singletonIndex) removeEntity(e Entity) {
	for id, owner := range s.owner {
		if owner == e {
			delete(s.owner, id)
		}
	}
}
