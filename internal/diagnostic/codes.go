package diagnostic

// Diagnostic codes.
const (
	CodeTypeNotFound      = "type_not_found"
	CodeNotAStruct        = "not_a_struct"
	CodeMissingTable      = "missing_table"
	CodeDuplicateTable    = "duplicate_table"
	CodeDuplicateColumn   = "duplicate_column"
	CodeDuplicateOverride = "duplicate_override"
	CodeCodecConflict     = "codec_conflict"
	CodeNoFields          = "no_fields"
	CodeNoCodec           = "no_codec"
	CodeCodecSignature    = "codec_signature"
	CodeUnknownField      = "unknown_field"
	CodeUnknownOption     = "unknown_option"
	CodeNoVariants        = "no_variants"
	CodeEnumNotInteger    = "enum_not_integer"
	CodeEnumOrderUnstable = "enum_order_unstable"
	CodeFieldSkipped      = "field_skipped"
	CodeSchemaNotFound    = "schema_not_found"
)
