package fragment

import "fmt"

// Code is a machine readable reason code. Values are stable per verifier and
// callers match on either the number or the string.
type Code struct {
	Value int
	Name  string
}

func (c Code) Reason(message string) *Reason {
	return &Reason{Code: c.Value, CodeString: c.Name, Message: message}
}

func (c Code) Reasonf(format string, args ...interface{}) *Reason {
	return c.Reason(fmt.Sprintf(format, args...))
}

// CodeSet is the minimum every verifier must declare so the shared adapter can
// build skipped and error fragments
type CodeSet struct {
	UnexpectedError Code
	Skipped         Code
}

var (
	TokenRegistryStatusCodes = struct {
		CodeSet
		DocumentNotMinted       Code
		InvalidIssuers          Code
		InvalidValidationMethod Code
		InvalidArgument         Code
		UnrecognizedDocument    Code
		ServerError             Code
	}{
		CodeSet: CodeSet{
			UnexpectedError: Code{0, "UNEXPECTED_ERROR"},
			Skipped:         Code{2, "SKIPPED"},
		},
		DocumentNotMinted:       Code{1, "DOCUMENT_NOT_MINTED"},
		InvalidIssuers:          Code{3, "INVALID_ISSUERS"},
		InvalidValidationMethod: Code{4, "INVALID_VALIDATION_METHOD"},
		InvalidArgument:         Code{5, "INVALID_ARGUMENT"},
		UnrecognizedDocument:    Code{6, "UNRECOGNIZED_DOCUMENT"},
		ServerError:             Code{7, "SERVER_ERROR"},
	}

	DocumentStoreStatusCodes = struct {
		CodeSet
		DocumentNotIssued       Code
		InvalidIssuers          Code
		InvalidValidationMethod Code
		DocumentRevoked         Code
		UnrecognizedDocument    Code
		ServerError             Code
	}{
		CodeSet: CodeSet{
			UnexpectedError: Code{0, "UNEXPECTED_ERROR"},
			Skipped:         Code{4, "SKIPPED"},
		},
		DocumentNotIssued:       Code{1, "DOCUMENT_NOT_ISSUED"},
		InvalidIssuers:          Code{2, "INVALID_ISSUERS"},
		InvalidValidationMethod: Code{3, "INVALID_VALIDATION_METHOD"},
		DocumentRevoked:         Code{5, "DOCUMENT_REVOKED"},
		UnrecognizedDocument:    Code{6, "UNRECOGNIZED_DOCUMENT"},
		ServerError:             Code{7, "SERVER_ERROR"},
	}

	DidSignedStatusCodes = struct {
		CodeSet
		Unsigned        Code
		WrongSignature  Code
		DocumentRevoked Code
		MalformedProof  Code
	}{
		CodeSet: CodeSet{
			UnexpectedError: Code{0, "UNEXPECTED_ERROR"},
			Skipped:         Code{1, "SKIPPED"},
		},
		Unsigned:        Code{2, "UNSIGNED"},
		WrongSignature:  Code{3, "WRONG_SIGNATURE"},
		DocumentRevoked: Code{4, "DOCUMENT_REVOKED"},
		MalformedProof:  Code{5, "MALFORMED_PROOF"},
	}

	DnsTxtCodes = struct {
		CodeSet
		InvalidIdentity        Code
		InvalidIssuers         Code
		MatchingRecordNotFound Code
		UnrecognizedDocument   Code
	}{
		CodeSet: CodeSet{
			UnexpectedError: Code{0, "UNEXPECTED_ERROR"},
			Skipped:         Code{2, "SKIPPED"},
		},
		InvalidIdentity:        Code{1, "INVALID_IDENTITY"},
		InvalidIssuers:         Code{3, "INVALID_ISSUERS"},
		MatchingRecordNotFound: Code{4, "MATCHING_RECORD_NOT_FOUND"},
		UnrecognizedDocument:   Code{5, "UNRECOGNIZED_DOCUMENT"},
	}

	DnsDidCodes = struct {
		CodeSet
		InvalidIssuers         Code
		MalformedIdentityProof Code
		MatchingRecordNotFound Code
	}{
		CodeSet: CodeSet{
			UnexpectedError: Code{0, "UNEXPECTED_ERROR"},
			Skipped:         Code{2, "SKIPPED"},
		},
		InvalidIssuers:         Code{1, "INVALID_ISSUERS"},
		MalformedIdentityProof: Code{3, "MALFORMED_IDENTITY_PROOF"},
		MatchingRecordNotFound: Code{4, "MATCHING_RECORD_NOT_FOUND"},
	}

	HashCodes = struct {
		CodeSet
		DocumentTampered Code
	}{
		CodeSet: CodeSet{
			UnexpectedError: Code{1, "UNEXPECTED_ERROR"},
			Skipped:         Code{2, "SKIPPED"},
		},
		DocumentTampered: Code{0, "DOCUMENT_TAMPERED"},
	}
)
