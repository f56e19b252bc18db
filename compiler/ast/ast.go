package ast

type (
	Expr any

	Num int64

	Ref string

	Mem struct {
		Addr Expr
	}

	Min struct {
		Left  Expr
		Right Expr
	}

	Assign struct {
		Lhs Expr // Ref or Mem
		Rhs Expr
	}
)
