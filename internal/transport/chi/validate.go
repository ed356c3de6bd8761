package chi

// validateInput checks struct tags and converts failures into a domain.ValidationError.
func (s *Server) validateInput(in any) error {
	return s.validate.Struct(in)
}
