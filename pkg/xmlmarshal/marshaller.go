package xmlmarshal

import (
	"encoding/xml"
	"fmt"

	"github.com/typeforge/typeforge/pkg/compiler"
)

// MarshallingError reports a failure rendering an instance to XML.
type MarshallingError struct {
	QualifiedName string
	Err           error
}

func (e *MarshallingError) Error() string {
	if e.QualifiedName == "" {
		return fmt.Sprintf("xml marshalling failed: %v", e.Err)
	}
	return fmt.Sprintf("xml marshalling of %s failed: %v", e.QualifiedName, e.Err)
}

func (e *MarshallingError) Unwrap() error { return e.Err }

// Marshaller renders compiled instances as XML text, honoring the xml
// struct tags embedded by the generator and carried through compilation.
type Marshaller struct{}

// NewMarshaller creates a marshaller.
func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

// ToXML renders the instance. pretty applies two-space indentation; compact
// output is a single line. A nil instance is rejected outright.
func (m *Marshaller) ToXML(instance *compiler.Instance, pretty bool) (string, error) {
	if instance == nil {
		return "", &MarshallingError{Err: fmt.Errorf("instance is nil")}
	}

	var out []byte
	var err error
	if pretty {
		out, err = xml.MarshalIndent(instance.Interface(), "", "  ")
	} else {
		out, err = xml.Marshal(instance.Interface())
	}
	if err != nil {
		return "", &MarshallingError{
			QualifiedName: instance.Artifact().QualifiedName,
			Err:           err,
		}
	}
	return string(out), nil
}
