package tensor

import (
	"github.com/nd-02110114/chemprep/pkg/errors"
)

// Device identifies the memory space a tensor's buffer lives in. Moving
// data between devices is always an explicit operation; arithmetic runs
// wherever its operands already are.
type Device struct {
	name string
}

// CPU is host memory, the only device built into this package. It is
// the zero Device, so freshly constructed and deserialized tensors are
// host-resident without further setup.
var CPU = Device{}

func (d Device) String() string {
	if d.name == "" {
		return "cpu"
	}
	return d.name
}

// Relocatable is implemented by values whose learned buffers move
// between devices as a unit, the same way any other parameter buffer in
// a surrounding model would.
type Relocatable interface {
	ToDevice(d Device) error
}

// Device returns the device the tensor currently resides on.
func (t *Tensor) Device() Device {
	return t.device
}

// ToDevice returns a copy of the tensor resident on d. Only CPU is
// supported in-tree; other devices yield a ValueError.
func (t *Tensor) ToDevice(d Device) (*Tensor, error) {
	if d != CPU {
		return nil, errors.NewValueError("Tensor.ToDevice", "unsupported device: "+d.String())
	}
	out := t.Clone()
	out.device = d
	return out, nil
}
