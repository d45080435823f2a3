package ast

// Literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Num(value float64) *NumberLiteral {
	return NewNumberLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Null() *NullLiteral {
	return NewNullLiteral()
}

func List(elements ...Expression) *ListLiteral {
	return NewListLiteral(elements)
}

// Expression helpers.

func Un(operator Operator, operand Expression) *UnaryExpression {
	return NewUnaryExpression(operator, operand)
}

func Bin(operator Operator, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func CallExpr(callee Expression, args ...Expression) *FunctionCall {
	return NewFunctionCall(callee, args)
}

func Call(name string, args ...Expression) *FunctionCall {
	return CallExpr(ID(name), args...)
}

func Index(object, index Expression) *IndexExpression {
	return NewIndexExpression(object, index)
}

// Statement helpers.

func Blk(statements ...Statement) *Block {
	return NewBlock(statements)
}

func Assign(name string, value Expression) *Assignment {
	return NewAssignment(ID(name), value)
}

func AssignIndex(target *IndexExpression, value Expression) *IndexAssignment {
	return NewIndexAssignment(target, value)
}

func Ret(argument Expression) *ReturnStatement {
	return NewReturnStatement(argument)
}

func Print(args ...Expression) *PrintStatement {
	return NewPrintStatement(args)
}

// Control flow helpers.

func If(condition Expression, body ...Statement) *IfExpression {
	return NewIfExpression([]*IfClause{NewIfClause(condition, Blk(body...))}, nil)
}

func IfElse(condition Expression, then, otherwise *Block) *IfExpression {
	return NewIfExpression([]*IfClause{NewIfClause(condition, then)}, otherwise)
}

func For(variable string, start, end, step Expression, body ...Statement) *ForLoop {
	return NewForLoop(ID(variable), start, end, step, Blk(body...))
}

func While(condition Expression, body ...Statement) *WhileLoop {
	return NewWhileLoop(condition, Blk(body...))
}

func Repeat(until Expression, body ...Statement) *RepeatLoop {
	return NewRepeatLoop(Blk(body...), until)
}

func Arm(value Expression, response Statement) *CaseArm {
	return NewCaseArm(value, response)
}

// Function helpers.

func params(names []string) []*Identifier {
	var out []*Identifier
	for _, name := range names {
		out = append(out, ID(name))
	}
	return out
}

// Fn builds a block-form function; an empty name produces an anonymous one.
func Fn(name string, paramNames []string, body ...Statement) *FunctionDefinition {
	var id *Identifier
	if name != "" {
		id = ID(name)
	}
	return NewFunctionDefinition(id, params(paramNames), Blk(body...), false)
}

// Lambda builds an expression-form function.
func Lambda(name string, paramNames []string, body Expression) *FunctionDefinition {
	var id *Identifier
	if name != "" {
		id = ID(name)
	}
	return NewFunctionDefinition(id, params(paramNames), body, true)
}
