// Package leadform implements the freight quote request form: its data, the
// validation of every field, the progressive reveal of each step and the
// step sequence itself.
//
// The package has no rendering code. A Store owns one form session and is
// created by whoever starts the session, then passed explicitly to the
// Sequencer and to the views; there is no package-level instance.
//
// # Steps
//
// The form has seven fixed steps:
//
//	Destination → Origin → Freight → Goods details (1, 2, 3) → Contact → Review → Confirmation
//
// Next leaves a step (or goods sub-step) only when every field that step
// currently requires is Valid. Previous and GoTo never clear anything.
// Review is left through Submit, which hands a flat Payload to a Transport.
//
// # Validity
//
// Every field has a tri-state validity: Untouched (empty), Valid or Invalid.
// Validate is a total function; malformed input is Invalid, never an error
// or a panic. The Store recomputes validity as part of each mutation, so a
// value is never observable without its validity.
//
// # Relevance
//
// Whether a field takes part depends on other fields: the destination port
// only for port deliveries, the company name only for companies, and for
// each cargo line only the fields of its shipping type and calculation mode.
// Relevant decides this; an irrelevant field never blocks a transition
// whatever its stored validity.
//
// # Cargo Lines
//
// Each cargo line keeps its loose and container details side by side.
// Switching the shipping type changes which branch is relevant but never
// deletes the other branch, so switching back restores what was typed.
//
// # Example
//
//	store := leadform.NewStore(leadform.Options{OriginCountry: "CN", Language: "fr"})
//	seq := leadform.NewSequencer(store)
//
//	_ = store.Set(leadform.FieldCountry, "FR")
//	_ = store.Set(leadform.FieldDestLocationType, leadform.LocationPort)
//	_ = store.Set(leadform.FieldDestPort, "FRLEH")
//
//	if err := seq.Next(); err != nil {
//	    fmt.Println(leadform.MissingFields(err))
//	}
package leadform
