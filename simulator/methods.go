// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package simulator

import (
	"fmt"
	"strconv"

	"github.com/absmach/iiot/pkg/apiutil"
	"github.com/absmach/iiot/pkg/errors"
)

const typeDouble = "Double"

type method struct {
	inputs  []Argument
	outputs []Argument
	call    func(args []Value) ([]Value, error)
}

var methods = map[string]method{
	"add": {
		inputs: []Argument{
			{Name: "a", Description: "first addend", DataType: typeDouble},
			{Name: "b", Description: "second addend", DataType: typeDouble},
		},
		outputs: []Argument{
			{Name: "sum", Description: "a + b", DataType: typeDouble},
		},
		call: add,
	},
	"echo": {
		inputs: []Argument{
			{Name: "value", Description: "any value", DataType: "BaseDataType"},
		},
		outputs: []Argument{
			{Name: "value", Description: "the input value", DataType: "BaseDataType"},
		},
		call: echo,
	},
}

func add(args []Value) ([]Value, error) {
	if len(args) != 2 {
		return nil, errors.Wrap(apiutil.ErrInvalidArgument, fmt.Errorf("expected 2 arguments, got %d", len(args)))
	}
	sum := 0.0
	for _, arg := range args {
		f, err := toFloat(arg.Value)
		if err != nil {
			return nil, errors.Wrap(apiutil.ErrInvalidArgument, err)
		}
		sum += f
	}

	return []Value{{Value: sum, DataType: typeDouble}}, nil
}

func echo(args []Value) ([]Value, error) {
	if len(args) != 1 {
		return nil, errors.Wrap(apiutil.ErrInvalidArgument, fmt.Errorf("expected 1 argument, got %d", len(args)))
	}

	return []Value{args[0]}, nil
}

func toFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case string:
		return strconv.ParseFloat(val, 64)
	default:
		return 0, fmt.Errorf("unsupported value %v", v)
	}
}
