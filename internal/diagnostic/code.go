package diagnostic

// Code is a stable, enumerated diagnostic identifier. Names are part of
// the public API; numeric values are implementation-defined but stable
// within a major version.
type Code int

const (
	CasingInstruction Code = iota + 1
	CasingDirective
	ArgumentMissing
	ArgumentExtra
	ArgumentRequiresOne
	ArgumentRequiresAtLeastOne
	ArgumentRequiresTwo
	ArgumentRequiresAtLeastTwo
	ArgumentRequiresOneOrThree
	ArgumentUnnecessary
	DuplicateBuildStageName
	EmptyContinuationLine
	InvalidBuildStageName
	FlagAtLeastOne
	FlagDuplicate
	FlagInvalidDuration
	FlagLessThan1ms
	FlagMissingDuration
	FlagMissingValue
	FlagUnknownUnit
	FlagExpectedBooleanValue
	FlagInvalidFromValue
	NoSourceImage
	InvalidEscapeDirective
	DuplicatedEscapeDirective
	InvalidAs
	InvalidDestination
	InvalidPort
	InvalidProto
	InvalidReferenceFormat
	InvalidSignal
	InvalidSyntax
	OnbuildChainingDisallowed
	OnbuildTriggerDisallowed
	ShellJSONForm
	ShellRequiresOne
	SyntaxMissingEquals
	SyntaxMissingNames
	SyntaxMissingSingleQuote
	SyntaxMissingDoubleQuote
	MultipleInstructions
	UnknownInstruction
	UnknownAddFlag
	UnknownCopyFlag
	UnknownFromFlag
	UnknownHealthcheckFlag
	UnknownType
	UnsupportedModifier
	DeprecatedMaintainer
	HealthcheckCmdArgumentMissing
	JSONInSingleQuotes
	WorkdirIsNotAbsolute
	BaseNameEmpty
)

// names maps each Code to its stable public identifier.
var names = map[Code]string{
	CasingInstruction:             "CASING_INSTRUCTION",
	CasingDirective:               "CASING_DIRECTIVE",
	ArgumentMissing:               "ARGUMENT_MISSING",
	ArgumentExtra:                 "ARGUMENT_EXTRA",
	ArgumentRequiresOne:           "ARGUMENT_REQUIRES_ONE",
	ArgumentRequiresAtLeastOne:    "ARGUMENT_REQUIRES_AT_LEAST_ONE",
	ArgumentRequiresTwo:           "ARGUMENT_REQUIRES_TWO",
	ArgumentRequiresAtLeastTwo:    "ARGUMENT_REQUIRES_AT_LEAST_TWO",
	ArgumentRequiresOneOrThree:    "ARGUMENT_REQUIRES_ONE_OR_THREE",
	ArgumentUnnecessary:           "ARGUMENT_UNNECESSARY",
	DuplicateBuildStageName:       "DUPLICATE_BUILD_STAGE_NAME",
	EmptyContinuationLine:         "EMPTY_CONTINUATION_LINE",
	InvalidBuildStageName:         "INVALID_BUILD_STAGE_NAME",
	FlagAtLeastOne:                "FLAG_AT_LEAST_ONE",
	FlagDuplicate:                 "FLAG_DUPLICATE",
	FlagInvalidDuration:           "FLAG_INVALID_DURATION",
	FlagLessThan1ms:               "FLAG_LESS_THAN_1MS",
	FlagMissingDuration:           "FLAG_MISSING_DURATION",
	FlagMissingValue:              "FLAG_MISSING_VALUE",
	FlagUnknownUnit:               "FLAG_UNKNOWN_UNIT",
	FlagExpectedBooleanValue:      "FLAG_EXPECTED_BOOLEAN_VALUE",
	FlagInvalidFromValue:          "FLAG_INVALID_FROM_VALUE",
	NoSourceImage:                 "NO_SOURCE_IMAGE",
	InvalidEscapeDirective:        "INVALID_ESCAPE_DIRECTIVE",
	DuplicatedEscapeDirective:     "DUPLICATED_ESCAPE_DIRECTIVE",
	InvalidAs:                     "INVALID_AS",
	InvalidDestination:            "INVALID_DESTINATION",
	InvalidPort:                   "INVALID_PORT",
	InvalidProto:                  "INVALID_PROTO",
	InvalidReferenceFormat:        "INVALID_REFERENCE_FORMAT",
	InvalidSignal:                 "INVALID_SIGNAL",
	InvalidSyntax:                 "INVALID_SYNTAX",
	OnbuildChainingDisallowed:     "ONBUILD_CHAINING_DISALLOWED",
	OnbuildTriggerDisallowed:      "ONBUILD_TRIGGER_DISALLOWED",
	ShellJSONForm:                 "SHELL_JSON_FORM",
	ShellRequiresOne:              "SHELL_REQUIRES_ONE",
	SyntaxMissingEquals:           "SYNTAX_MISSING_EQUALS",
	SyntaxMissingNames:            "SYNTAX_MISSING_NAMES",
	SyntaxMissingSingleQuote:      "SYNTAX_MISSING_SINGLE_QUOTE",
	SyntaxMissingDoubleQuote:      "SYNTAX_MISSING_DOUBLE_QUOTE",
	MultipleInstructions:          "MULTIPLE_INSTRUCTIONS",
	UnknownInstruction:            "UNKNOWN_INSTRUCTION",
	UnknownAddFlag:                "UNKNOWN_ADD_FLAG",
	UnknownCopyFlag:               "UNKNOWN_COPY_FLAG",
	UnknownFromFlag:               "UNKNOWN_FROM_FLAG",
	UnknownHealthcheckFlag:        "UNKNOWN_HEALTHCHECK_FLAG",
	UnknownType:                   "UNKNOWN_TYPE",
	UnsupportedModifier:           "UNSUPPORTED_MODIFIER",
	DeprecatedMaintainer:          "DEPRECATED_MAINTAINER",
	HealthcheckCmdArgumentMissing: "HEALTHCHECK_CMD_ARGUMENT_MISSING",
	JSONInSingleQuotes:            "JSON_IN_SINGLE_QUOTES",
	WorkdirIsNotAbsolute:          "WORKDIR_IS_NOT_ABSOLUTE",
	BaseNameEmpty:                 "BASE_NAME_EMPTY",
}

// String returns the stable public identifier for the code.
func (c Code) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return "UNKNOWN_CODE"
}
