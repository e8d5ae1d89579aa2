package device

import (
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"os"
	"strconv"
	"strings"
)

// ErrCommandRequired is returned for a blank command
var ErrCommandRequired = errors.New("command required")

const shellHelp = `Commands:
  help              show this help
  echo <text>       print text
  ls                list files with sizes
  cat <file>        print a file
  rm <file>         delete a file
  uptime            seconds since boot
  reboot            reboot the device
  clear             clear the console
Anything else is evaluated as a constant expression, e.g. 2+3*4 or "a"+"b".`

// Shell evaluates console commands on the device
type Shell struct {
	files   *FileStore
	console *ConsoleBuffer
	reboot  func()
}

// NewShell creates a shell bound to the device file store and console.
// reboot is invoked by the reboot command.
func NewShell(files *FileStore, console *ConsoleBuffer, reboot func()) *Shell {
	return &Shell{files: files, console: console, reboot: reboot}
}

// Exec runs one command and returns what it printed
func (sh *Shell) Exec(command string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", ErrCommandRequired
	}

	name, arg, _ := strings.Cut(command, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "help":
		return shellHelp, nil
	case "echo":
		return arg, nil
	case "ls":
		return sh.ls()
	case "cat":
		if arg == "" {
			return "", errors.New("cat: missing file operand")
		}
		content, err := sh.files.Load(arg)
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("cat: %s: no such file", arg)
		}
		return strings.TrimRight(content, "\n"), err
	case "rm":
		if arg == "" {
			return "", errors.New("rm: missing file operand")
		}
		return "", sh.files.Delete(arg)
	case "uptime":
		return fmt.Sprintf("%.1fs", sh.console.Uptime().Seconds()), nil
	case "reboot":
		if sh.reboot != nil {
			sh.reboot()
		}
		return "Rebooting...", nil
	case "clear":
		sh.console.Clear()
		return "", nil
	}

	return evalExpression(command)
}

func (sh *Shell) ls() (string, error) {
	files, err := sh.files.List()
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(files))
	for _, f := range files {
		lines = append(lines, fmt.Sprintf("%8d  %s", f.Size, f.Name))
	}
	return strings.Join(lines, "\n"), nil
}

// evalExpression evaluates a constant expression and formats the result
func evalExpression(src string) (out string, err error) {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return "", errors.New("invalid syntax")
	}

	// go/constant panics on operand kinds it cannot combine
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("unsupported operand types in %q", src)
		}
	}()

	v, err := evalNode(expr)
	if err != nil {
		return "", err
	}
	if v.Kind() == constant.String {
		return strconv.Quote(constant.StringVal(v)), nil
	}
	return v.String(), nil
}

func evalNode(node ast.Expr) (constant.Value, error) {
	switch n := node.(type) {
	case *ast.BasicLit:
		v := constant.MakeFromLiteral(n.Value, n.Kind, 0)
		if v.Kind() == constant.Unknown {
			return nil, fmt.Errorf("invalid literal %s", n.Value)
		}
		return v, nil

	case *ast.Ident:
		switch n.Name {
		case "true", "True":
			return constant.MakeBool(true), nil
		case "false", "False":
			return constant.MakeBool(false), nil
		}
		return nil, fmt.Errorf("name '%s' is not defined", n.Name)

	case *ast.ParenExpr:
		return evalNode(n.X)

	case *ast.UnaryExpr:
		x, err := evalNode(n.X)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case token.ADD, token.SUB, token.XOR, token.NOT:
			return constant.UnaryOp(n.Op, x, 0), nil
		}
		return nil, fmt.Errorf("unsupported operator %s", n.Op)

	case *ast.BinaryExpr:
		x, err := evalNode(n.X)
		if err != nil {
			return nil, err
		}
		y, err := evalNode(n.Y)
		if err != nil {
			return nil, err
		}
		return evalBinary(n.Op, x, y)
	}

	return nil, fmt.Errorf("unsupported expression %T", node)
}

func evalBinary(op token.Token, x, y constant.Value) (constant.Value, error) {
	if op != token.SHL && op != token.SHR && kindClass(x) != kindClass(y) {
		return nil, fmt.Errorf("unsupported operand types for %s", op)
	}

	switch op {
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return constant.MakeBool(constant.Compare(x, op, y)), nil

	case token.SHL, token.SHR:
		s, ok := constant.Uint64Val(constant.ToInt(y))
		if !ok || s > 1024 {
			return nil, errors.New("invalid shift count")
		}
		return constant.Shift(x, op, uint(s)), nil

	case token.QUO, token.REM:
		if y.Kind() != constant.Bool && y.Kind() != constant.String && constant.Sign(y) == 0 {
			return nil, errors.New("division by zero")
		}
	}
	return constant.BinaryOp(x, op, y), nil
}

// kindClass groups constant kinds that go/constant can combine
func kindClass(v constant.Value) int {
	switch v.Kind() {
	case constant.Bool:
		return 1
	case constant.String:
		return 2
	case constant.Int, constant.Float, constant.Complex:
		return 3
	}
	return 0
}
