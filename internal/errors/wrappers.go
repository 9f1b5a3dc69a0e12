package errors

import "fmt"

// failed builds "failed to <operation> <subject>" errors carrying the
// operation in their context
func failed(code ErrorCode, operation, subject string, cause error) *BaseError {
	return Wrap(code, fmt.Sprintf("failed to %s %s", operation, subject), cause).
		WithContext("operation", operation)
}

// WrapParseError reports Go source that could not be parsed
func WrapParseError(item string, cause error) *BaseError {
	return Wrap(SyntaxErrorCode, "failed to parse "+item, cause)
}

// WrapFileSystemError reports a failed operation on path
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	return failed(FileSystemErrorCode, operation, fmt.Sprintf("'%s'", path), cause).
		WithContext("path", path)
}

// WrapTemplateError reports a template that could not be parsed or executed
func WrapTemplateError(templateName, operation string, cause error) *BaseError {
	return failed(TemplateErrorCode, operation, fmt.Sprintf("template '%s'", templateName), cause).
		WithContext("template", templateName)
}

// WrapConfigurationError reports a config source that could not be read
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	return failed(ConfigurationErrorCode, operation, fmt.Sprintf("configuration '%s'", configType), cause).
		WithContext("config_type", configType)
}

// WrapClassMapError reports a class map that could not be loaded or saved
func WrapClassMapError(operation, path string, cause error) *BaseError {
	return failed(ClassMapErrorCode, operation, fmt.Sprintf("class map '%s'", path), cause).
		WithContext("path", path)
}
