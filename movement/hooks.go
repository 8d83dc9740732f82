package movement

// ModifiableValue is a value other systems may adjust before the solver uses it. Hooks
// receive a value with Result equal to Base and may change Result.
type ModifiableValue struct {
	Base   float32
	Result float32
}

// NewModifiableValue ...
func NewModifiableValue(base float32) *ModifiableValue {
	return &ModifiableValue{Base: base, Result: base}
}

// Hooks are the modifiable-value hooks consulted by the solver. Nil hooks leave the base
// value unchanged.
type Hooks struct {
	MaxSpeed        func(mode Mode, v *ModifiableValue)
	JumpForce       func(v *ModifiableValue)
	MaxJumps        func(v *ModifiableValue)
	ItemUseCooldown func(v *ModifiableValue)
}

func (h Hooks) maxSpeed(mode Mode) float32 {
	v := NewModifiableValue(mode.Properties().MaxSpeed)
	if h.MaxSpeed != nil {
		h.MaxSpeed(mode, v)
	}
	return max(0, v.Result)
}

func (h Hooks) jumpForce(base float32) float32 {
	v := NewModifiableValue(base)
	if h.JumpForce != nil {
		h.JumpForce(v)
	}
	return v.Result
}

func (h Hooks) maxJumps(base int) int {
	v := NewModifiableValue(float32(base))
	if h.MaxJumps != nil {
		h.MaxJumps(v)
	}
	return int(v.Result)
}

// ItemCooldown returns the item use cooldown for the base passed after the
// ItemUseCooldown hook ran.
func (h Hooks) ItemCooldown(base float32) float32 {
	v := NewModifiableValue(base)
	if h.ItemUseCooldown != nil {
		h.ItemUseCooldown(v)
	}
	return v.Result
}
