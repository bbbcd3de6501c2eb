// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package doc carries the OpenAPI description of the HTTP API.
package doc

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed tiprouter.yaml
var OpenAPI []byte

type operation struct {
	OperationID string `yaml:"operationId"`
}

type pathItem struct {
	Get  *operation `yaml:"get"`
	Post *operation `yaml:"post"`
}

var document struct {
	Info struct {
		Version string `yaml:"version"`
	} `yaml:"info"`
	Paths map[string]pathItem `yaml:"paths"`
}

func init() {
	if err := yaml.Unmarshal(OpenAPI, &document); err != nil {
		panic(err)
	}
}

// Version returns the API version.
func Version() string {
	return document.Info.Version
}

// Operations maps each operation id to its path template.
func Operations() map[string]string {
	ops := make(map[string]string)
	for path, item := range document.Paths {
		for _, op := range []*operation{item.Get, item.Post} {
			if op != nil && op.OperationID != "" {
				ops[op.OperationID] = path
			}
		}
	}
	return ops
}
