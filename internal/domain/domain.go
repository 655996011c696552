// Package domain contains the core data structures shared across ChemistFlow,
// independent of the cache, transport, and HTTP layers. Field semantics belong
// to the Preprocessor and Engine; this package carries the shapes opaquely.
package domain

// ReactionID, MechanismID, MoleculeID, CatalystID and StageID have no
// meaning beyond equality and hashability. They originate at the
// Preprocessor; ChemistFlow never mints one.
type (
	ReactionID  int64
	MechanismID int64
	MoleculeID  int64
	CatalystID  int64
	StageID     int64
)

// Reaction is the minimal reaction summary.
type Reaction struct {
	ReactionID   ReactionID `json:"reactionId"`
	ReactionName string     `json:"reactionName"`
}

// Molecule is carried opaquely except for its identifier.
type Molecule struct {
	MoleculeID MoleculeID `json:"moleculeId"`
	Name       string     `json:"name"`
}

// Catalyst is carried opaquely except for its identifier.
type Catalyst struct {
	CatalystID CatalystID `json:"catalystId"`
	Name       string     `json:"name"`
}

// ReagentIn carries the amount of a reagent consumed by a reaction.
type ReagentIn struct {
	Amount float64 `json:"amount"`
}

// ProductFrom carries the amount of a product yielded by a reaction.
type ProductFrom struct {
	Amount float64 `json:"amount"`
}

// Accelerate is a condition carrying parallel arrays of temperatures and
// pressures. The two arrays are positionally zipped (shorter wins) when
// expanded into SystemStates.
type Accelerate struct {
	Temperature []float64 `json:"temperature"`
	Pressure    []float64 `json:"pressure"`
}

// Reagent pairs a ReagentIn amount with the molecule it refers to. Order
// within ReactionDetails.InboundReagents is significant: it defines the
// positional pairing with a client-supplied amount vector.
type Reagent struct {
	ReagentIn ReagentIn `json:"reagentIn"`
	Molecule  Molecule  `json:"molecule"`
}

// Product pairs a ProductFrom amount with the molecule it refers to. Order
// within ReactionDetails.OutboundProducts is significant.
type Product struct {
	ProductFrom ProductFrom `json:"productFrom"`
	Molecule    Molecule    `json:"molecule"`
}

// Condition pairs an Accelerate envelope with the catalyst it applies to.
// Order within ReactionDetails.Conditions is significant: it fixes the
// order of a compute request's result slots. Each condition contributes
// one Engine call per zipped (temperature, pressure) pair.
type Condition struct {
	Accelerate Accelerate `json:"accelerate"`
	Catalyst   Catalyst   `json:"catalyst"`
}

// ReactionDetails is the full reaction record as returned by the
// Preprocessor.
type ReactionDetails struct {
	Reaction         Reaction    `json:"reaction"`
	InboundReagents  []Reagent   `json:"inboundReagents"`
	OutboundProducts []Product   `json:"outboundProducts"`
	Conditions       []Condition `json:"conditions"`
}

// Mechanism is the minimal mechanism summary.
type Mechanism struct {
	MechanismID      MechanismID `json:"mechanismId"`
	MechanismName    string      `json:"mechanismName"`
	MechanismType    string      `json:"mechanismType"`
	ActivationEnergy float64     `json:"activationEnergy"`
}

// Follow carries the textual description that follows a Mechanism in its
// context.
type Follow struct {
	Description string `json:"description"`
}

// MechanismContext pairs a Mechanism with its Follow description.
type MechanismContext struct {
	Mechanism Mechanism `json:"mechanism"`
	Follow    Follow    `json:"follow"`
}

// Stage is one step of a mechanism.
type Stage struct {
	StageID StageID `json:"stageId"`
	Name    string  `json:"name"`
}

// InteractantTag discriminates the six variants of the Interactant tagged
// union on the wire.
type InteractantTag string

const (
	TagMolecule    InteractantTag = "IMolecule"
	TagCatalyst    InteractantTag = "ICatalyst"
	TagAccelerate  InteractantTag = "IAccelerate"
	TagProductFrom InteractantTag = "IProductFrom"
	TagReagentIn   InteractantTag = "IReagentIn"
	TagReaction    InteractantTag = "IReaction"
)

// StageInteractants pairs a Stage with the ordered list of Interactants
// that participate in it.
type StageInteractants struct {
	Stage        Stage         `json:"stage"`
	Interactants []Interactant `json:"interactants"`
}

// MechanismDetails is the full mechanism record as returned by the
// Preprocessor.
type MechanismDetails struct {
	MechanismContext  MechanismContext    `json:"mechanismContext"`
	StageInteractants []StageInteractants `json:"stageInteractants"`
}

// Database identifies the thermodynamic database an Engine call should use.
type Database struct {
	Name string `json:"name"`
}

// SystemState is one (T, P, database, amounts) tuple dispatched to the
// Engine.
type SystemState struct {
	Temperature     float64            `json:"temperature"`
	Pressure        float64            `json:"pressure"`
	Database        Database           `json:"database"`
	MoleculeAmounts map[string]float64 `json:"moleculeAmounts"`
}

// MoleculeAmountList is the client-supplied amount vectors for a compute
// request, positionally paired with a reaction's inbound reagents and
// outbound products.
type MoleculeAmountList struct {
	InboundReagentAmounts  []float64 `json:"inboundReagentAmounts"`
	OutboundProductAmounts []float64 `json:"outboundProductAmounts"`
}
