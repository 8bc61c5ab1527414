// Package metrics holds the Prometheus collectors of every pipeline component.
package metrics

const namespace = "blockinsight7000"

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
