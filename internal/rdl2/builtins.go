package rdl2

// Names of the built-in classes.
const (
	ClassTraceSet          = "TraceSet"
	ClassLayer             = "Layer"
	ClassGeometrySet       = "GeometrySet"
	ClassLightSet          = "LightSet"
	ClassLightFilterSet    = "LightFilterSet"
	ClassShadowSet         = "ShadowSet"
	ClassShadowReceiverSet = "ShadowReceiverSet"
	ClassMetadata          = "Metadata"
)

func registerBuiltins(c *SceneContext) {
	c.RegisterBuiltin(ClassTraceSet, BuiltinClass{
		Declare: func(sc *SceneClass) (Interface, error) {
			iface, err := declareTraceSet(sc)
			sc.SetSplitExempt(true)
			return iface, err
		},
	})
	c.RegisterBuiltin(ClassLayer, BuiltinClass{Declare: declareLayer})
	for _, k := range []setKind{geometrySetKind, lightSetKind, lightFilterSetKind, shadowSetKind, shadowReceiverSetKind} {
		c.RegisterBuiltin(k.class, BuiltinClass{Declare: k.declare})
	}
	c.RegisterBuiltin(ClassMetadata, BuiltinClass{Declare: declareMetadata})
}
