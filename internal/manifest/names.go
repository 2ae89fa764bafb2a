package manifest

import "strings"

const (
	// CASecretName holds the CA certificate shared by every queue manager in
	// the namespace
	CASecretName = "mq-ca-cert"

	// MQSCKey is the ConfigMap key of the MQSC script
	MQSCKey = "config.mqsc"

	// License is the IBM MQ license accepted by the generated QueueManager
	License = "L-YBXJ-ADJNSM"

	queueManagerAPIVersion = "mq.ibm.com/v1beta1"
	queueManagerKind       = "QueueManager"

	// routePort is the port OpenShift routes expose a passthrough service on
	routePort = 443
)

// Secret data keys
const (
	KeyCACert  = "ca.crt"
	KeyTLSCert = "tls.crt"
	KeyTLSKey  = "tls.key"
)

// systemChannels are predefined by MQ and must not be redefined
var systemChannels = map[string]bool{
	"SYSTEM.DEF.SVRCONN":  true,
	"SYSTEM.AUTO.SVRCONN": true,
}

// QueueManagerSecretName returns the Secret holding the queue manager's
// server certificate
func QueueManagerSecretName(queueManagerName string) string {
	return queueManagerName + "-qmgr-cert"
}

// HASecretName returns the Secret holding the Native HA replication
// certificate
func HASecretName(queueManagerName string) string {
	return queueManagerName + "-ha-cert"
}

// MQSCConfigMapName returns the ConfigMap holding the startup MQSC script
func MQSCConfigMapName(queueManagerName string) string {
	return queueManagerName + "-mqsc"
}

// MQName returns the name MQ itself uses for the queue manager
func MQName(queueManagerName string) string {
	return strings.ToUpper(queueManagerName)
}
