// package common contains common types and helpers used throughout the orrery. They are not interface-wrapped
// structs, just plain structs and pure functions that express commonly used data-types and transform math.
package common

// RenderPayload is the draw information a scene node carries for the Renderer collaborator.
// The core never interprets it beyond passing it through with the node's world transform.
type RenderPayload struct {
	// MaterialColor is the diffuse RGB color of the body's material.
	MaterialColor [3]float32

	// MeshHandle identifies the mesh/buffer set the renderer should draw. Opaque to the core.
	MeshHandle uint32

	// Emissive marks materials lit by the shine scalar (the sun).
	Emissive bool

	// BoundingRadius is the radius of the mesh in local space, used for frustum visibility.
	BoundingRadius float32
}
