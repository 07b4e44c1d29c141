package introspection

// Kinds of __Type as reported by introspection.
const (
	scalarKind      = "SCALAR"
	objectKind      = "OBJECT"
	interfaceKind   = "INTERFACE"
	unionKind       = "UNION"
	enumKind        = "ENUM"
	inputObjectKind = "INPUT_OBJECT"
	listKind        = "LIST"
	nonNullKind     = "NON_NULL"
)

type response struct {
	Data   *data           `json:"data"`
	Errors []responseError `json:"errors"`
}

type responseError struct {
	Message string `json:"message"`
}

type data struct {
	Schema *schema `json:"__schema"`
}

type schema struct {
	QueryType    *typeRef     `json:"queryType"`
	MutationType *typeRef     `json:"mutationType"`
	Types        *[]*fullType `json:"types"`
}

type inputValue struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	DefaultValue string   `json:"defaultValue"`
	Type         *typeRef `json:"type"`
}

type field struct {
	Name              string        `json:"name"`
	Description       string        `json:"description"`
	Args              []*inputValue `json:"args"`
	Type              *typeRef      `json:"type"`
	IsDeprecated      bool          `json:"isDeprecated"`
	DeprecationReason string        `json:"deprecationReason"`
}

type enumValue struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	IsDeprecated      bool   `json:"isDeprecated"`
	DeprecationReason string `json:"deprecationReason"`
}

type typeRef struct {
	Kind   string   `json:"kind"`
	Name   string   `json:"name"`
	OfType *typeRef `json:"ofType"`
}

type fullType struct {
	Kind          string        `json:"kind"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Fields        []*field      `json:"fields"`
	InputFields   []*inputValue `json:"inputFields"`
	Interfaces    []*typeRef    `json:"interfaces"`
	PossibleTypes []*typeRef    `json:"possibleTypes"`
	EnumValues    []*enumValue  `json:"enumValues"`
}
