package types

import "fmt"

// ObjectRef pins a specific version of an owned object as a transaction input.
type ObjectRef struct {
	ObjectID ObjectID `json:"objectId"`
	Version  uint64   `json:"version"`
	Digest   Digest   `json:"digest"`
}

// String returns "id@version".
func (r ObjectRef) String() string {
	return fmt.Sprintf("%s@%d", r.ObjectID, r.Version)
}

// SharedObjectRef references a shared object by its initial shared version.
type SharedObjectRef struct {
	ObjectID             ObjectID
	InitialSharedVersion uint64
	Mutable              bool
}

// ClockRef is the immutable reference to the 0x6 clock passed to entry calls.
var ClockRef = SharedObjectRef{
	ObjectID:             ClockObjectID,
	InitialSharedVersion: 1,
	Mutable:              false,
}
