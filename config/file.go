package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wilsonsilva/rom/errors"
)

// GatewayDef is the shorthand description of one gateway: the adapter
// type tag plus free-form settings passed through to the adapter.
type GatewayDef struct {
	Adapter  string         `yaml:"adapter"`
	Settings map[string]any `yaml:",inline"`
}

// GatewayDefs maps gateway names to their shorthand definitions.
type GatewayDefs map[string]GatewayDef

// LoadFile reads gateway definitions from a YAML file. The expected
// shape mirrors the positional configure shorthand:
//
//	gateways:
//	  default:
//	    adapter: memory
//	    datasets: [users, tasks]
func LoadFile(path string) (GatewayDefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapConfig(err, "Config", "LoadFile", "file read")
	}

	var doc struct {
		Gateways GatewayDefs `yaml:"gateways"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapConfig(err, "Config", "LoadFile", "YAML parsing")
	}

	if doc.Gateways == nil {
		doc.Gateways = GatewayDefs{}
	}
	return doc.Gateways, nil
}
