package irq

import "testing"

func TestSetHandlerRejectsOutOfRange(t *testing.T) {
	if err := SetHandler(IRQ(TotalIRQs), func() {}); err == nil {
		t.Error("expected error for out-of-range IRQ index")
	}
}

func TestSetHandlerAndDispatch(t *testing.T) {
	fired := false
	if err := SetHandler(SGPIO, func() { fired = true }); err != nil {
		t.Fatal(err)
	}
	defer SetHandler(SGPIO, nil)

	Dispatch(SGPIO)
	if !fired {
		t.Error("Dispatch did not invoke the installed handler")
	}
}

func TestDispatchWithNoHandlerIsNoop(t *testing.T) {
	SetHandler(DAC, nil)
	Dispatch(DAC) // must not panic
}

func TestHandlerForRoundTrip(t *testing.T) {
	h := func() {}
	SetHandler(Timer0, h)
	defer SetHandler(Timer0, nil)

	if HandlerFor(Timer0) == nil {
		t.Error("HandlerFor returned nil after SetHandler")
	}
}
