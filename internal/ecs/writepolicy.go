package ecs

// permissionHook is a write-permission predicate: (entity, type_id) -> bool.
type permissionHook func(e Entity, typeID ComponentTypeID) bool

// writePolicy gates every structural/value mutation behind the phase
// table, registered permission hooks, and typed/object validators.
type writePolicy struct {
	permissionHooks  []permissionHook
	typedValidators  map[ComponentTypeID]func(any) bool
	objectValidators map[ComponentTypeID]func(any) bool
	denyAll          bool // installed for the duration of FrameUI + binder flush
	cfg              *WorldConfig
}

func newWritePolicy(cfg *WorldConfig) *writePolicy {
	return &writePolicy{
		typedValidators:  map[ComponentTypeID]func(any) bool{},
		objectValidators: map[ComponentTypeID]func(any) bool{},
		cfg:              cfg,
	}
}

func (p *writePolicy) addPermissionHook(hook permissionHook) {
	p.permissionHooks = append(p.permissionHooks, hook)
}

func (p *writePolicy) setTypedValidator(id ComponentTypeID, fn func(any) bool) {
	p.typedValidators[id] = fn
}

func (p *writePolicy) setObjectValidator(id ComponentTypeID, fn func(any) bool) {
	p.objectValidators[id] = fn
}

// check runs the full gate -- phase permission, registered permission
// hooks, then typed/object validators -- and returns the first applicable
// *ECSError, or nil if the write is allowed. value is nil for remove
// operations, which skip the validator steps.
func (p *writePolicy) check(phase Phase, e Entity, typeID ComponentTypeID, structural bool, value any) *ECSError {
	allowStructural, allowValue := phase.permissions()
	if p.denyAll {
		allowStructural, allowValue = false, false
	}
	if structural && !allowStructural {
		return errPhaseDenied(e, typeID, phase, true)
	}
	if !structural && !allowValue {
		return errPhaseDenied(e, typeID, phase, false)
	}
	for _, hook := range p.permissionHooks {
		if !hook(e, typeID) {
			return errPermissionDenied(e, typeID)
		}
	}
	if value != nil {
		if fn, ok := p.typedValidators[typeID]; ok && !fn(value) {
			return errValidationFailed(e, typeID)
		}
		if fn, ok := p.objectValidators[typeID]; ok && !fn(value) {
			return errValidationFailed(e, typeID)
		}
	}
	return nil
}

// handleDenied routes a denial through the configured WriteFailurePolicy.
// PolicyThrow returns err unchanged to the caller; PolicyLog reports it via
// the configured sink and swallows it (nil error); PolicySilent drops it
// with no side effect at all.
func (p *writePolicy) handleDenied(err *ECSError) error {
	switch p.cfg.WriteFailurePolicy {
	case PolicyLog:
		if p.cfg.LogSink != nil {
			p.cfg.LogSink("ecs: denied write: %s", err.Error())
		}
		return nil
	case PolicySilent:
		return nil
	default:
		return err
	}
}
