package orders

import "github.com/jinzhu/copier"

// Proposal is a reasoning collaborator's suggested new order state. It is
// untrusted input: nothing in it becomes part of the accepted state except
// through [Merge].
type Proposal struct {
	DrinkType  *string  `json:"drinkType" jsonschema:"description=Selected beverage, or null if not mentioned yet"`
	Size       *string  `json:"size" jsonschema:"description=Selected size, or null if not mentioned yet"`
	Milk       *string  `json:"milk" jsonschema:"description=Milk preference, or null if not mentioned yet"`
	Extras     []string `json:"extras" jsonschema:"description=Full list of add-ons mentioned so far"`
	Name       *string  `json:"name" jsonschema:"description=Customer name for the order, or null if not given yet"`
	IsComplete bool     `json:"is_complete" jsonschema:"description=Whether the order has every required field"`
}

// Merge applies a proposal to the prior state and returns the accepted new
// state. It is a pure function with no side effects.
//
// Slots (drinkType, size, milk, name) fill monotonically: a proposal value is
// accepted when present and non-null, otherwise the prior value is retained.
// A slot is never cleared back to unset.
//
// The proposal's extras list is the collaborator's full accumulated list and
// replaces the prior list when present; an omitted list keeps the prior one.
//
// is_complete is recomputed locally from the four required slots. The
// proposal's own completion flag is advisory only and is overwritten, which
// guards against a collaborator declaring completion prematurely.
func Merge(prior State, proposal Proposal) State {
	next := prior.clone()

	if proposal.DrinkType != nil {
		next.DrinkType = proposal.DrinkType
	}
	if proposal.Size != nil {
		next.Size = proposal.Size
	}
	if proposal.Milk != nil {
		next.Milk = proposal.Milk
	}
	if proposal.Name != nil {
		next.Name = proposal.Name
	}
	if proposal.Extras != nil {
		next.Extras = append([]string{}, proposal.Extras...)
	}

	next.IsComplete = next.DrinkType != nil &&
		next.Size != nil &&
		next.Milk != nil &&
		next.Name != nil

	return next
}

func (s State) clone() State {
	var cloned State
	if err := copier.CopyWithOption(&cloned, &s, copier.Option{DeepCopy: true}); err != nil {
		cloned = s
		cloned.Extras = append([]string{}, s.Extras...)
	}
	if cloned.Extras == nil {
		cloned.Extras = []string{}
	}
	return cloned
}
