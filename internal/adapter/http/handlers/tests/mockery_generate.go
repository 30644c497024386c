package tests

// Regenerate the service mocks after changing the port interfaces:
//
//   go generate ./internal/adapter/http/handlers/tests
//
//go:generate mockery --name TaskService --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename task_service_mock.go --with-expecter
//go:generate mockery --name TemplateService --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename template_service_mock.go --with-expecter
