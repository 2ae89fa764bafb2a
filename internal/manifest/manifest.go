// Package manifest renders the Kubernetes resources, client channel table and
// operator commands for a queue manager deployment and its TLS bundle.
package manifest

import (
	"errors"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"

	"github.com/robcowart/mqha/internal/models"
)

// ErrMissingTLS is returned when manifests are requested before a TLS bundle
// has been generated
var ErrMissingTLS = errors.New("TLS data has not been generated")

// documentSeparator joins the documents of a multi-document YAML stream
const documentSeparator = "\n---\n"

// Objects returns the resources of the deployment in apply order: the CA,
// queue manager and HA Secrets, the MQSC ConfigMap when there is a script,
// and the QueueManager.
func Objects(cfg *models.MQConfig) ([]*unstructured.Unstructured, error) {
	if cfg == nil || cfg.TLS == nil {
		return nil, ErrMissingTLS
	}
	tls := cfg.TLS
	qm := cfg.QueueManagerName

	typed := []runtime.Object{
		newSecret(CASecretName, cfg.Namespace, corev1.SecretTypeOpaque, map[string]string{
			KeyCACert: tls.CA,
		}),
		newSecret(QueueManagerSecretName(qm), cfg.Namespace, corev1.SecretTypeTLS, map[string]string{
			KeyTLSCert: tls.ServerCert,
			KeyTLSKey:  tls.ServerKey,
			KeyCACert:  tls.CA,
		}),
		newSecret(HASecretName(qm), cfg.Namespace, corev1.SecretTypeTLS, map[string]string{
			KeyTLSCert: tls.HACert,
			KeyTLSKey:  tls.HAKey,
			KeyCACert:  tls.CA,
		}),
	}

	mqsc := MQSC(cfg)
	if mqsc != "" {
		typed = append(typed, &corev1.ConfigMap{
			TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "ConfigMap"},
			ObjectMeta: metav1.ObjectMeta{Name: MQSCConfigMapName(qm), Namespace: cfg.Namespace},
			Data:       map[string]string{MQSCKey: mqsc},
		})
	}

	objects := make([]*unstructured.Unstructured, 0, len(typed)+1)
	for _, obj := range typed {
		content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %T: %w", obj, err)
		}
		// never set on objects that have not been created
		unstructured.RemoveNestedField(content, "metadata", "creationTimestamp")
		objects = append(objects, &unstructured.Unstructured{Object: content})
	}

	return append(objects, queueManager(cfg, mqsc != "")), nil
}

// Generate renders Objects as a multi-document YAML stream
func Generate(cfg *models.MQConfig) (string, error) {
	objects, err := Objects(cfg)
	if err != nil {
		return "", err
	}

	docs := make([]string, 0, len(objects))
	for _, obj := range objects {
		data, err := yaml.Marshal(obj.Object)
		if err != nil {
			return "", fmt.Errorf("failed to marshal %s %s: %w", obj.GetKind(), obj.GetName(), err)
		}
		docs = append(docs, strings.TrimSpace(string(data)))
	}

	return strings.Join(docs, documentSeparator), nil
}

func newSecret(name, namespace string, secretType corev1.SecretType, data map[string]string) *corev1.Secret {
	secret := &corev1.Secret{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Type:       secretType,
		Data:       make(map[string][]byte, len(data)),
	}
	for key, value := range data {
		secret.Data[key] = []byte(value)
	}
	return secret
}

// queueManager builds the QueueManager custom resource. The MQ operator
// types are not vendored, so the resource is assembled as unstructured
// content.
func queueManager(cfg *models.MQConfig, withMQSC bool) *unstructured.Unstructured {
	qm := cfg.QueueManagerName

	queueManagerSpec := map[string]interface{}{
		"name": MQName(qm),
		"storage": map[string]interface{}{
			"queueManager": map[string]interface{}{
				"type":  "persistent-claim",
				"class": cfg.StorageClassName,
			},
		},
	}
	if withMQSC {
		queueManagerSpec["mqsc"] = []interface{}{
			map[string]interface{}{
				"configMap": map[string]interface{}{
					"name":  MQSCConfigMapName(qm),
					"items": []interface{}{MQSCKey},
				},
			},
		}
	}

	availability := map[string]interface{}{
		"type": string(cfg.Availability),
	}
	if cfg.IsNativeHA() {
		availability["tls"] = map[string]interface{}{
			"cipherSpec": cfg.HACipherSpec,
			"keySecret":  map[string]interface{}{"secretName": HASecretName(qm)},
			"caSecret":   map[string]interface{}{"secretName": CASecretName},
		}
	}

	obj := &unstructured.Unstructured{Object: map[string]interface{}{
		"spec": map[string]interface{}{
			"license": map[string]interface{}{
				"accept":  true,
				"license": License,
				"use":     string(cfg.LicenseUse),
			},
			"queueManager": queueManagerSpec,
			"availability": availability,
			"pki": map[string]interface{}{
				"keys": []interface{}{
					map[string]interface{}{
						"name": "default",
						"secret": map[string]interface{}{
							"secretName": QueueManagerSecretName(qm),
							"items":      []interface{}{KeyTLSKey, KeyTLSCert},
						},
					},
				},
				"trust": []interface{}{
					map[string]interface{}{
						"name": "ca",
						"secret": map[string]interface{}{
							"secretName": CASecretName,
							"items":      []interface{}{KeyCACert},
						},
					},
				},
			},
		},
	}}
	obj.SetAPIVersion(queueManagerAPIVersion)
	obj.SetKind(queueManagerKind)
	obj.SetName(qm)
	obj.SetNamespace(cfg.Namespace)
	return obj
}
