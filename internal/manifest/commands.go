package manifest

import (
	"fmt"
	"strings"

	"github.com/robcowart/mqha/internal/models"
)

// VerificationCommands returns the oc commands an operator runs to follow the
// rollout of the queue manager
func VerificationCommands(cfg *models.MQConfig) string {
	qm := cfg.QueueManagerName
	ns := cfg.Namespace
	selector := "app.kubernetes.io/instance=" + qm

	var b strings.Builder
	fmt.Fprintf(&b, "# Watch the Queue Manager deployment status\n")
	fmt.Fprintf(&b, "oc get queuemanager %s -n %s -w\n\n", qm, ns)
	fmt.Fprintf(&b, "# Check the status of the pods\n")
	fmt.Fprintf(&b, "oc get pods -l %s -n %s -w\n\n", selector, ns)
	fmt.Fprintf(&b, "# Once the pods are running, you can exec into a pod to run MQSC commands\n")
	fmt.Fprintf(&b, "# Find a running pod name first:\n")
	fmt.Fprintf(&b, "# POD_NAME=$(oc get pods -l %s -n %s -o jsonpath='{.items[0].metadata.name}')\n", selector, ns)
	fmt.Fprintf(&b, "# oc exec -it $POD_NAME -n %s -- runmqsc %s", ns, MQName(qm))
	return b.String()
}
