package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/platformer/movement"
)

const stickDeadZone = 0.3

// Input polls the keyboard and the first gamepad once per frame.
type Input struct {
	// MoveX is -1 for left, 0 for none, +1 for right. A gamepad stick may
	// produce values in between.
	MoveX float64
	// JumpPressed is true on the frame a jump key or button went down.
	JumpPressed bool
	// DebugToggled is true on the frame F3 went down.
	DebugToggled bool
	Quit         bool
}

func (i *Input) Update() {
	var moveX float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		moveX += 1
	}
	jump := inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyW) ||
		inpututil.IsKeyJustPressed(ebiten.KeyUp)

	if ids := ebiten.AppendGamepadIDs(nil); len(ids) > 0 {
		gid := ids[0]
		if leftX := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal); leftX < -stickDeadZone || leftX > stickDeadZone {
			moveX = leftX
		}
		jump = jump || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
	}

	i.MoveX = moveX
	i.JumpPressed = jump
	i.DebugToggled = inpututil.IsKeyJustPressed(ebiten.KeyF3)
	i.Quit = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

// Apply hands this frame's input to pc.
func (i *Input) Apply(pc movement.PlayerController) {
	pc.SetHorizontalInput(i.MoveX)
	if i.JumpPressed {
		pc.RequestJump()
	}
}
