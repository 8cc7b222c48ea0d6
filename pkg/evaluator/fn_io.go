package evaluator

import (
	"context"

	"github.com/itmoscript/itmoscript/pkg/types"
)

func fnPrint(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	return types.NilValue, e.write(types.Pos{}, types.Display(args[0]))
}

func fnPrintln(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	buf := acquireBuf()
	defer releaseBuf(buf)
	buf.WriteString(types.Display(args[0]))
	buf.WriteByte('\n')
	return types.NilValue, e.write(types.Pos{}, buf.String())
}

// fnRead is reserved; programs have no input stream.
func fnRead(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	return nil, types.Errorf(types.ErrUnsupported, "read() not implemented")
}

func fnStacktrace(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	return nil, types.Errorf(types.ErrUnsupported, "stacktrace() not implemented")
}
