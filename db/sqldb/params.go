package sqldb

import "fmt"

// SQLType is the declared type of a prepared statement input
type SQLType string

const (
	NVarChar SQLType = "nvarchar"
	VarChar  SQLType = "varchar"
	Int      SQLType = "int"
	BigInt   SQLType = "bigint"
)

// Param declares a named input. MaxLength 0 = unbounded
type Param struct {
	Name      string
	Type      SQLType
	MaxLength int
}

func (p Param) String() string {
	if p.MaxLength > 0 {
		return fmt.Sprintf("@%s %s(%d)", p.Name, p.Type, p.MaxLength)
	}
	return fmt.Sprintf("@%s %s", p.Name, p.Type)
}

// NamedArg is a value bound to a named input
type NamedArg struct {
	Name  string
	Value any
}

func Named(name string, value any) NamedArg {
	return NamedArg{Name: name, Value: value}
}

// OrderArgs picks args by name following names.
// Names may repeat (positional `?` dialects); a missing name is an EARGS error
func OrderArgs(names []string, args []NamedArg) ([]any, error) {
	byName := make(map[string]any, len(args))
	for _, a := range args {
		byName[a.Name] = a.Value
	}
	ordered := make([]any, len(names))
	for i, name := range names {
		v, ok := byName[name]
		if !ok {
			return nil, &Error{Code: CodeArgs, Message: fmt.Sprintf("no value bound for @%s", name)}
		}
		ordered[i] = v
	}
	return ordered, nil
}
