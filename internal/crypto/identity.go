package crypto

// Role names the purpose of a leaf certificate in a bundle
type Role string

const (
	// RoleServer identifies the queue manager to its clients
	RoleServer Role = "server"

	// RoleHA identifies the queue manager to its Native HA replicas
	RoleHA Role = "ha"
)

// Identity binds a role to the common name and DNS names its certificate
// must carry. Clients verify these exact names.
type Identity struct {
	Role       Role     `json:"role"`
	CommonName string   `json:"common_name"`
	SANs       []string `json:"sans"`
}

// ServerIdentity returns the identity of the queue manager service
func ServerIdentity(queueManagerName, namespace string) Identity {
	return serviceIdentity(RoleServer, queueManagerName, namespace)
}

// HAIdentity returns the identity of the queue manager's replication service
func HAIdentity(queueManagerName, namespace string) Identity {
	return serviceIdentity(RoleHA, queueManagerName+"-ha", namespace)
}

func serviceIdentity(role Role, service, namespace string) Identity {
	commonName := service + "." + namespace + ".svc.cluster.local"
	return Identity{
		Role:       role,
		CommonName: commonName,
		SANs: []string{
			commonName,
			service + "." + namespace + ".svc",
			service,
		},
	}
}

// LeafRequest returns the issuance request for this identity
func (id Identity) LeafRequest(subject DistinguishedName, validityDays int) *LeafRequest {
	return &LeafRequest{
		CommonName:   id.CommonName,
		SANs:         append([]string(nil), id.SANs...),
		Subject:      subject,
		ValidityDays: validityDays,
	}
}
