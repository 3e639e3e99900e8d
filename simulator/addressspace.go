// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package simulator

import (
	"fmt"
	"io"
	"os"

	"github.com/absmach/iiot/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defRootID         = "i=84"
	hasComponentRefID = "i=47"
	organizesRefID    = "i=35"
	nodeClassMethod   = "Method"
)

// Node is an address space node.
type Node struct {
	ID          string   `yaml:"id"`
	Class       string   `yaml:"class"`
	BrowseName  string   `yaml:"browse_name"`
	DisplayName string   `yaml:"display_name,omitempty"`
	Children    []string `yaml:"children,omitempty"`
	Method      string   `yaml:"method,omitempty"`
}

// AddressSpace is a static node graph. Children may reference any node,
// including ancestors.
type AddressSpace struct {
	Root  string `yaml:"root"`
	Nodes []Node `yaml:"nodes"`

	index   map[string]Node
	parents map[string]string
}

// ReadAddressSpace loads an address space from a YAML file.
func ReadAddressSpace(path string) (AddressSpace, error) {
	if path == "" {
		return AddressSpace{}, errors.ErrEmptyPath
	}
	f, err := os.Open(path)
	if err != nil {
		return AddressSpace{}, errors.Wrap(ErrInvalidAddressSpace, err)
	}
	defer f.Close()

	return DecodeAddressSpace(f)
}

// DecodeAddressSpace decodes and validates a YAML address space.
func DecodeAddressSpace(r io.Reader) (AddressSpace, error) {
	var as AddressSpace
	if err := yaml.NewDecoder(r).Decode(&as); err != nil {
		return AddressSpace{}, errors.Wrap(ErrInvalidAddressSpace, err)
	}
	if err := as.build(); err != nil {
		return AddressSpace{}, err
	}

	return as, nil
}

func (as *AddressSpace) build() error {
	if as.Root == "" {
		as.Root = defRootID
	}
	as.index = make(map[string]Node, len(as.Nodes))
	as.parents = make(map[string]string)
	for _, n := range as.Nodes {
		if n.ID == "" {
			return errors.Wrap(ErrInvalidAddressSpace, errors.New("node without id"))
		}
		if _, ok := as.index[n.ID]; ok {
			return errors.Wrap(ErrInvalidAddressSpace, fmt.Errorf("duplicate node %s", n.ID))
		}
		if n.DisplayName == "" {
			n.DisplayName = n.BrowseName
		}
		as.index[n.ID] = n
	}
	if _, ok := as.index[as.Root]; !ok {
		return errors.Wrap(ErrInvalidAddressSpace, fmt.Errorf("missing root node %s", as.Root))
	}
	for _, n := range as.Nodes {
		for _, c := range n.Children {
			if _, ok := as.index[c]; !ok {
				return errors.Wrap(ErrInvalidAddressSpace, fmt.Errorf("node %s references unknown node %s", n.ID, c))
			}
			if _, ok := as.parents[c]; !ok {
				as.parents[c] = n.ID
			}
		}
		if n.Method != "" {
			if _, ok := methods[n.Method]; !ok {
				return errors.Wrap(ErrInvalidAddressSpace, fmt.Errorf("node %s has unknown method %s", n.ID, n.Method))
			}
		}
	}

	return nil
}

// Node returns the node with the given id. An empty id returns the root.
func (as AddressSpace) Node(id string) (Node, bool) {
	if id == "" {
		id = as.Root
	}
	n, ok := as.index[id]
	return n, ok
}

// Parent returns the id of the first node that lists id as a child.
func (as AddressSpace) Parent(id string) string {
	return as.parents[id]
}

func (as AddressSpace) references(n Node) []Reference {
	refs := make([]Reference, 0, len(n.Children))
	for _, id := range n.Children {
		child := as.index[id]
		refType := organizesRefID
		if child.Class == nodeClassMethod {
			refType = hasComponentRefID
		}
		refs = append(refs, Reference{
			ReferenceTypeID: refType,
			Target:          child,
			HasChildren:     len(child.Children) > 0,
		})
	}

	return refs
}

// DefaultAddressSpace returns a small plant model with variables, methods
// and a back reference from the boiler to its plant.
func DefaultAddressSpace() AddressSpace {
	as := AddressSpace{
		Root: defRootID,
		Nodes: []Node{
			{ID: "i=84", Class: "Object", BrowseName: "Root", Children: []string{"i=85", "i=86", "i=87"}},
			{ID: "i=85", Class: "Object", BrowseName: "Objects", Children: []string{"i=2253", "ns=2;s=Plant"}},
			{ID: "i=86", Class: "Object", BrowseName: "Types", Children: []string{"ns=2;s=BoilerType"}},
			{ID: "i=87", Class: "Object", BrowseName: "Views"},
			{ID: "i=2253", Class: "Object", BrowseName: "Server", Children: []string{"i=2256"}},
			{ID: "i=2256", Class: "Variable", BrowseName: "ServerStatus"},
			{ID: "ns=2;s=BoilerType", Class: "ObjectType", BrowseName: "BoilerType"},
			{ID: "ns=2;s=Plant", Class: "Object", BrowseName: "Plant", Children: []string{"ns=2;s=Boiler", "ns=2;s=Methods"}},
			{ID: "ns=2;s=Boiler", Class: "Object", BrowseName: "Boiler", Children: []string{
				"ns=2;s=Boiler.Temperature", "ns=2;s=Boiler.Pressure", "ns=2;s=Boiler.Level", "ns=2;s=Plant",
			}},
			{ID: "ns=2;s=Boiler.Temperature", Class: "Variable", BrowseName: "Temperature"},
			{ID: "ns=2;s=Boiler.Pressure", Class: "Variable", BrowseName: "Pressure"},
			{ID: "ns=2;s=Boiler.Level", Class: "Variable", BrowseName: "Level"},
			{ID: "ns=2;s=Methods", Class: "Object", BrowseName: "Methods", Children: []string{"ns=2;s=Add", "ns=2;s=Echo"}},
			{ID: "ns=2;s=Add", Class: "Method", BrowseName: "Add", Method: "add"},
			{ID: "ns=2;s=Echo", Class: "Method", BrowseName: "Echo", Method: "echo"},
		},
	}
	if err := as.build(); err != nil {
		panic(err)
	}

	return as
}
