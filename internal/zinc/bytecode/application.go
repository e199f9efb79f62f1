package bytecode

// UnitTest is a named, self-contained entry point a circuit exposes
// for its test runner.
type UnitTest struct {
	Address                uint32  `json:"address"`
	ShouldPanic            bool    `json:"should_panic"`
	IsIgnored              bool    `json:"is_ignored"`
	OptionalTransactionMsg *string `json:"optional_transaction_msg,omitempty"`
}

// Method is one entry point of a Contract.
type Method struct {
	TypeID     uint32    `json:"type_id"`
	Name       string    `json:"name"`
	Address    uint32    `json:"address"`
	IsMutable  bool      `json:"is_mutable"`
	InputType  ValueType `json:"input_type"`
	OutputType ValueType `json:"output_type"`
}

// ContractField is one entry in a contract's storage schema. Implicit
// fields (e.g. the zkSync-style transaction message) are populated by
// the engine, not by caller input.
type ContractField struct {
	Name       string    `json:"name"`
	Type       ValueType `json:"type"`
	IsPublic   bool      `json:"is_public"`
	IsImplicit bool      `json:"is_implicit"`
}

// Circuit is a single-entry application with no persistent state
//.
type Circuit struct {
	Name         string              `json:"name"`
	EntryAddress uint32              `json:"entry_address"`
	InputType    ValueType           `json:"input_type"`
	OutputType   ValueType           `json:"output_type"`
	UnitTests    map[string]UnitTest `json:"unit_tests"`
	Instructions []Instruction       `json:"instructions"`
}

// Contract is a multi-method application with Merkle-backed persistent
// storage.
type Contract struct {
	Name          string              `json:"name"`
	StorageSchema []ContractField     `json:"storage_schema"`
	Methods       map[string]Method   `json:"methods"`
	UnitTests     map[string]UnitTest `json:"unit_tests"`
	Instructions  []Instruction       `json:"instructions"`
}

// Application is the JSON-tagged program container: exactly one of
// Circuit or Contract is populated, selected by Kind.
type Application struct {
	Kind     string    `json:"type"` // "Circuit" | "Contract"
	Circuit  *Circuit  `json:"circuit,omitempty"`
	Contract *Contract `json:"contract,omitempty"`
}
