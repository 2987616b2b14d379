package w3cdid

import "github.com/tcfw/docverify/pkg/cryptography"

const ContextV1 = "https://www.w3.org/ns/did/v1"

type Document struct {
	Context              []string                          `json:"@context"`
	ID                   string                            `json:"id"`
	AlsoKnownAs          []string                          `json:"alsoKnownAs,omitempty"`
	Controller           []string                          `json:"controller,omitempty"`
	VerificationMethod   []cryptography.VerificationMethod `json:"verificationMethod,omitempty"`
	Authentication       []string                          `json:"authentication,omitempty"`
	AssertionMethod      []string                          `json:"assertionMethod,omitempty"`
	KeyAgreement         []string                          `json:"keyAgreement,omitempty"`
	CapabilityInvocation []string                          `json:"capabilityInvocation,omitempty"`
	CapabilityDelegation []string                          `json:"capabilityDelegation,omitempty"`
	Service              []Service                         `json:"service,omitempty"`
}

type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}
