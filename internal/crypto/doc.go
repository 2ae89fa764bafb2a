// Package crypto builds the TLS trust chain of an MQ Native HA deployment:
// a self-signed root CA for the namespace and two leaf certificates signed by
// it, one for the queue manager service and one for its HA replication
// service. It also provides the PEM codec used to hand the material to other
// components and to re-validate it, and PKCS#12 export for MQ clients.
//
// GenerateTLSBundle is the entry point. BuildCA and IssueLeaf are the two
// building blocks it composes.
package crypto
