package frp

// Producer is an external source feeding a behavior or a stream. Activate is
// called when the node gets its first listener and Deactivate when it loses
// its last one. Between the two the producer may call push at will, on the
// goroutine that drives the System; other goroutines go through Post.
type Producer[A any] interface {
	Activate(push func(A))
	Deactivate()
}

// ProducerFunc is a Producer given by its activation function, which returns
// the function that releases the source again.
type ProducerFunc[A any] func(push func(A)) (stop func())

type funcProducer[A any] struct {
	start ProducerFunc[A]
	stop  func()
}

func (p *funcProducer[A]) Activate(push func(A)) {
	p.stop = p.start(push)
}

func (p *funcProducer[A]) Deactivate() {
	if stop := p.stop; stop != nil {
		p.stop = nil
		stop()
	}
}

// Producer turns f into a Producer.
func (f ProducerFunc[A]) Producer() Producer[A] {
	return &funcProducer[A]{start: f}
}

type anyProducer interface {
	activate(push func(any))
	deactivate()
}

type producerAdapter[A any] struct {
	p Producer[A]
}

func (a producerAdapter[A]) activate(push func(any)) {
	a.p.Activate(func(v A) { push(v) })
}

func (a producerAdapter[A]) deactivate() {
	a.p.Deactivate()
}

// Post queues fn to run on the goroutine driving sys, at the next Flush or
// inside Run. It is the only System method safe to call from any goroutine.
func (sys *System) Post(fn func()) {
	sys.post(fn)
}
