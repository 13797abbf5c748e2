// Package dub parses the one-line commands of the synth console, e.g.
//
//	set cutoff 0.4
//	loop arp 2 60 64 _ 67
//	preset "pads/soft.json"
package dub

import (
	"fmt"
	"strconv"
)

type Node interface {
	isNode()
}

func (Identifier) isNode() {}
func (Int) isNode()        {}
func (Float) isNode()      {}
func (String) isNode()     {}

type Command struct {
	Name Identifier
	Args []Node
}

type Identifier string
type Int int
type Float float64
type String string

func (c Command) String() string {
	s := string(c.Name)
	for _, arg := range c.Args {
		s += " " + nodeString(arg)
	}
	return s
}

func nodeString(n Node) string {
	switch v := n.(type) {
	case String:
		return strconv.Quote(string(v))
	case Float:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Parse parses a single command line. A line holding only whitespace or a comment
// parses to a Command with an empty name.
func Parse(input string) (Command, error) {
	tokens, err := lex(input)
	if err != nil {
		return Command{}, err
	}
	p := parser{tokens: tokens}
	return p.parse()
}

type parser struct {
	pos    int
	tokens []token
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) parse() (Command, error) {
	var cmd Command
	token := p.next()
	switch token.typ {
	case typeEOF:
		return cmd, nil
	case typeIdentifier:
		cmd.Name = Identifier(token.text)
	default:
		return cmd, unexpected(token)
	}
	for token := p.next(); token.typ != typeEOF; token = p.next() {
		var arg Node
		switch token.typ {
		case typeIdentifier:
			arg = Identifier(token.text)
		case typeString:
			arg = String(token.text[1 : len(token.text)-1])
		case typeFloat:
			f, err := strconv.ParseFloat(token.text, 64)
			if err != nil {
				return cmd, err
			}
			arg = Float(f)
		case typeInt:
			n, err := strconv.Atoi(token.text)
			if err != nil {
				return cmd, err
			}
			arg = Int(n)
		default:
			return cmd, unexpected(token)
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

func unexpected(t token) error {
	return fmt.Errorf("unexpected %v %q at position %d", t.typ, t.text, t.pos)
}
