package autoload

// Import all handler subpackages for side-effect registration.
import (
	_ "bookbot/handlers/availability"
	_ "bookbot/handlers/booking"
	_ "bookbot/handlers/cancel"
	_ "bookbot/handlers/general"
)
