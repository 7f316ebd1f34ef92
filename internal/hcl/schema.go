package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top level of a model file.
type fileRoot struct {
	Models []*modelBlock `hcl:"model,block"`
}

type modelBlock struct {
	Name   string        `hcl:"name,label"`
	Rounds *int          `hcl:"rounds,optional"`
	Stocks []*stockBlock `hcl:"stock,block"`
	Flows  []*flowBlock  `hcl:"flow,block"`
}

type stockBlock struct {
	Name     string         `hcl:"name,label"`
	Infinite *bool          `hcl:"infinite,optional"`
	Show     *bool          `hcl:"show,optional"`
	Initial  hcl.Expression `hcl:"initial,optional"`
	Maximum  hcl.Expression `hcl:"maximum,optional"`
}

type flowBlock struct {
	Kind string         `hcl:"kind,label"`
	From string         `hcl:"from"`
	To   string         `hcl:"to"`
	Rate hcl.Expression `hcl:"rate"`
}
